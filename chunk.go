package h1

// ChunkHeader is the parsed "chunk-size [chunk-ext] CRLF" line that
// begins each chunk (RFC 7230 §4.1). Like FirstLine and Header, it is
// resumable: state lives in the struct so a short read can be resumed
// by calling parseChunkHeader again with the same ChunkHeader.
type ChunkHeader struct {
	Ext   Span // raw chunk-ext text, not structurally parsed, see skipChunkExt
	Size  int64
	state uint8
}

// Reset re-initializes a ChunkHeader for reuse.
func (c *ChunkHeader) Reset() { *c = ChunkHeader{} }

const (
	chSize uint8 = iota
	chExt
	chCRLF
	chFIN
)

// parseChunkHeader parses one chunk-size line starting at offs. On
// success it returns the offset just after the line's CRLF (the first
// byte of chunk-data, or of the trailer section for a zero-size chunk)
// and a nil error.
func parseChunkHeader(buf []byte, offs int, c *ChunkHeader) (int, error) {
	i := offs
	switch c.state {
	case chSize:
		start := i
		i = skipHexDigits(buf, i)
		if i >= len(buf) {
			return offs, ErrIncomplete
		}
		if i == start {
			return i, ErrMalformed
		}
		sz, ok := hexToU(buf[start:i])
		if !ok {
			return i, wrapErr(KindMalformed, "chunk size overflow", nil)
		}
		c.Size = int64(sz)
		c.Ext.Set(i, i)
		c.state = chExt
		fallthrough
	case chExt:
		end, err := skipChunkExt(buf, i)
		if err != nil {
			return i, err
		}
		c.Ext.Extend(end)
		i = end
		c.state = chCRLF
		fallthrough
	case chCRLF:
		end, _, err := skipCRLF(buf, i)
		if err != nil {
			return i, err
		}
		i = end
	default:
		return i, wrapErr(KindMalformed, "invalid chunk header state", nil)
	}
	c.state = chFIN
	return i, nil
}

// ChunkState drives the whole chunked transfer-coding across however
// many calls it takes to see the entire coded body: chunk-size line,
// chunk-data, the CRLF following chunk-data, repeated until a zero-size
// chunk, followed by an optional trailer section and the blank line
// that ends the message (RFC 7230 §4.1, §4.1.2).
type ChunkState struct {
	Header   ChunkHeader
	Trailers HeaderList
	Remain   int64 // bytes of the current chunk's data not yet consumed

	state uint8
}

const (
	ckHeader uint8 = iota
	ckBody
	ckBodyCRLF
	ckTrailers
	ckDone
)

// Reset re-initializes a ChunkState for reuse, keeping Trailers' backing
// array the way HeaderList.Reset does.
func (c *ChunkState) Reset() {
	trailers := c.Trailers
	trailers.Reset()
	*c = ChunkState{Trailers: trailers}
}

// Done reports whether the chunked body, including trailers and the
// terminating blank line, has been fully parsed.
func (c *ChunkState) Done() bool { return c.state == ckDone }

// Advance parses as much of the chunked coding as is available in
// buf[offs:], stopping either because the current chunk has body bytes
// ready to be consumed (ready == true, Remain > 0) or because the whole
// coding is done (ready == false, err == nil, c.Done() == true). It
// returns ErrIncomplete if buf runs out first; the same ChunkState can
// be passed to Advance again once more bytes are appended to buf.
//
// Callers (the Decoder) are expected to call ConsumeBody after copying
// out Remain (or fewer) bytes of chunk-data from the buffer, then call
// Advance again to move past the chunk's trailing CRLF and into the
// next chunk.
func (c *ChunkState) Advance(buf []byte, offs int, maxHeaders int) (int, bool, error) {
	i := offs
	for {
		switch c.state {
		case ckHeader:
			n, err := parseChunkHeader(buf, i, &c.Header)
			if err != nil {
				if isIncomplete(err) {
					// the next call re-parses this size line from i
					c.Header.Reset()
				}
				return i, false, err
			}
			i = n
			if c.Header.Size == 0 {
				c.state = ckTrailers
				continue
			}
			c.Remain = c.Header.Size
			c.state = ckBody
			return i, true, nil
		case ckBody:
			if c.Remain > 0 {
				return i, true, nil
			}
			c.state = ckBodyCRLF
		case ckBodyCRLF:
			n, _, err := skipCRLF(buf, i)
			if err != nil {
				return i, false, err
			}
			i = n
			c.Header.Reset()
			c.state = ckHeader
		case ckTrailers:
			n, err := parseHeaders(buf, i, &c.Trailers, maxHeaders)
			if err != nil {
				if isIncomplete(err) {
					// the next call re-parses the trailer section from i
					c.Trailers.Reset()
				}
				return i, false, err
			}
			i = n
			c.state = ckDone
			return i, false, nil
		case ckDone:
			return i, false, nil
		}
	}
}

// ConsumeBody records that n bytes of the current chunk's data have
// been copied out by the caller.
func (c *ChunkState) ConsumeBody(n int64) {
	c.Remain -= n
	if c.Remain < 0 {
		c.Remain = 0
	}
}
