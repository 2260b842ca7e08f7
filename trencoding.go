package h1

import "github.com/intuitivelabs/bytescase"

// TrEnc is the type for a resolved Transfer-Encoding (or TE) token, see
// RFC 7230 §4 and the IANA HTTP transfer-coding registry.
type TrEnc uint

const (
	TrEncNone TrEnc = 0
	TrEncChunkedF TrEnc = 1 << iota
	TrEncCompressF
	TrEncDeflateF
	TrEncGzipF
	TrEncIdentityF
	TrEncTrailersF // not an actual encoding, only valid in TE
	TrEncOtherF    // unrecognized token
)

// resolveTrEnc maps a transfer-coding token to its flag, falling back to
// TrEncOtherF for anything the engine does not special-case. Since the
// engine only ever needs to know "is the body chunked", unrecognized
// codings are never applied (only chunked is actually decoded), matching
// real servers that reject unknown codings (§4.5 MessageCodec rules).
func resolveTrEnc(n []byte) TrEnc {
	switch len(n) {
	case 7:
		if bytescase.CmpEq(n, []byte("chunked")) {
			return TrEncChunkedF
		}
		if bytescase.CmpEq(n, []byte("deflate")) {
			return TrEncDeflateF
		}
	case 8:
		if bytescase.CmpEq(n, []byte("compress")) {
			return TrEncCompressF
		}
		if bytescase.CmpEq(n, []byte("identity")) {
			return TrEncIdentityF
		}
		if bytescase.CmpEq(n, []byte("trailers")) {
			return TrEncTrailersF
		}
	case 4:
		if bytescase.CmpEq(n, []byte("gzip")) {
			return TrEncGzipF
		}
	}
	return TrEncOtherF
}

// parseTrEncList resolves the comma-separated list of transfer-codings
// in a fully captured header value (e.g. "gzip, chunked") into a flag
// set. Unlike the incremental message parsers, this runs over an
// already-buffered Span: by the time framing logic needs to know what
// codings apply, HeadParser has already captured the whole header block,
// so there is no "more bytes needed" case to support here.
func parseTrEncList(val []byte) TrEnc {
	var flags TrEnc
	i := 0
	for i < len(val) {
		for i < len(val) && (val[i] == ' ' || val[i] == '\t' || val[i] == ',') {
			i++
		}
		start := i
		i = skipToken(val, i)
		if i == start {
			break
		}
		flags |= resolveTrEnc(val[start:i])
	}
	return flags
}

// lastTrEnc returns the last (outermost, applied-last-on-the-wire)
// transfer-coding token in value, since RFC 7230 §3.3.1 only requires
// the LAST coding to be chunked for chunked framing to apply; any
// encodings wrapped further in are the handler's concern, not the
// engine's.
func lastTrEnc(val []byte) TrEnc {
	var last TrEnc
	i := 0
	for i < len(val) {
		for i < len(val) && (val[i] == ' ' || val[i] == '\t' || val[i] == ',') {
			i++
		}
		start := i
		i = skipToken(val, i)
		if i == start {
			break
		}
		last = resolveTrEnc(val[start:i])
	}
	return last
}
