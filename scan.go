package h1

// Low-level byte-scanning helpers shared by the first-line, header, and
// chunk parsers. Each follows the same resumability contract as the rest
// of the parser: on running off the end of buf without finding what it
// was looking for, it returns an offset of len(buf) (or the appropriate
// "more bytes needed" signal) so the caller can re-invoke once more bytes
// are appended to buf.

// skipToken scans forward from i while bytes are token characters (RFC
// 7230 "token": anything but CTL, SP, and HTTP separators), stopping at
// the first non-token byte. It returns len(buf) if the end of the slice
// is reached before a non-token byte, signalling "more bytes needed" to
// the caller.
func skipToken(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		if !isTokenChar(buf[i]) {
			return i
		}
	}
	return i
}

func isTokenChar(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"',
		'/', '[', ']', '?', '=', '{', '}', ' ', '\t':
		return false
	}
	return c > 0x20 && c < 0x7f
}

// skipCRLF expects a line terminator at offs: either "\r\n" or a lone
// "\n" (lenient, as many real-world servers emit bare LFs). It returns
// the offset after the terminator, the terminator's length (1 or 2), and
// an error: ErrIncomplete if buf runs out before a terminator is seen,
// ErrMalformed if the byte at offs is neither CR nor LF.
func skipCRLF(buf []byte, offs int) (int, int, error) {
	if offs >= len(buf) {
		return offs, 0, ErrIncomplete
	}
	switch buf[offs] {
	case '\n':
		return offs + 1, 1, nil
	case '\r':
		if offs+1 >= len(buf) {
			return offs, 0, ErrIncomplete
		}
		if buf[offs+1] != '\n' {
			return offs, 0, ErrMalformed
		}
		return offs + 2, 2, nil
	}
	return offs, 0, ErrMalformed
}

// skipLine scans until the end of the current line (CRLF or bare LF),
// returning the offset after the terminator and the terminator's length,
// so the caller can compute the line's content as buf[start:end-crlfLen].
func skipLine(buf []byte, offs int) (int, int, error) {
	for i := offs; i < len(buf); i++ {
		switch buf[i] {
		case '\n':
			return i + 1, 1, nil
		case '\r':
			if i+1 >= len(buf) {
				return i, 0, ErrIncomplete
			}
			if buf[i+1] != '\n' {
				// lone CR not followed by LF: treat as malformed rather
				// than silently accepting it as a line terminator.
				return i, 0, ErrMalformed
			}
			return i + 2, 2, nil
		}
	}
	return offs, 0, ErrIncomplete
}

// skipHexDigits scans forward while bytes are ASCII hex digits, stopping
// at the first byte that is not (used for chunk-size lines, which are
// hex, unlike everything else in the grammar which is decimal).
func skipHexDigits(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return i
		}
	}
	return i
}

// hexToU parses an ASCII hex string (as found in a chunk size line) into
// a uint64. It returns ok=false on an empty input or a non-hex digit, or
// if the value overflows 56 bits (the same ceiling framer-style wire
// formats in the corpus use for length fields).
func hexToU(s []byte) (uint64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	var v uint64
	for _, c := range s {
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, false
		}
		if v > (1<<56-1)>>4 {
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}
