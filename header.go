package h1

import (
	"errors"

	"github.com/intuitivelabs/bytescase"
)

// HdrKind is a closed enumeration of the headers the engine reasons about
// for framing and connection-reuse decisions. Anything else is HdrOther:
// the engine still keeps the header (in HeaderList.Hdrs, case-preserved,
// in wire order) but does not special-case it.
type HdrKind uint16

const (
	HdrNone HdrKind = iota
	HdrContentLength
	HdrTransferEncoding
	HdrConnection
	HdrDate
	HdrHost
	HdrExpect
	HdrTE // the "TE" request header, distinct from Transfer-Encoding
	HdrOther
)

// HdrFlags packs "is a header of this kind present" bits, so the engine
// can test framing-relevant headers in O(1) instead of scanning HeaderList.
type HdrFlags uint16

func (f *HdrFlags) Reset()             { *f = 0 }
func (f *HdrFlags) Set(k HdrKind)       { *f |= 1 << k }
func (f *HdrFlags) Clear(k HdrKind)     { *f &^= 1 << k }
func (f HdrFlags) Test(k HdrKind) bool  { return f&(1<<k) != 0 }
func (f HdrFlags) Any(ks ...HdrKind) bool {
	for _, k := range ks {
		if f&(1<<k) != 0 {
			return true
		}
	}
	return false
}

var hdrKindStr = [...]string{
	HdrNone:             "nil",
	HdrContentLength:    "Content-Length",
	HdrTransferEncoding: "Transfer-Encoding",
	HdrConnection:       "Connection",
	HdrDate:             "Date",
	HdrHost:             "Host",
	HdrExpect:           "Expect",
	HdrTE:               "TE",
	HdrOther:            "Generic",
}

func (k HdrKind) String() string {
	if int(k) >= len(hdrKindStr) {
		return "invalid"
	}
	return hdrKindStr[k]
}

// name<->kind table, always lowercase; grounded on the teacher's
// hdrName2Type/GetHdrType hashed lookup, trimmed to the headers this
// engine's framing rules (§4.5, §4.7) actually branch on.
type hdrNameEntry struct {
	name []byte
	kind HdrKind
}

var hdrNameTable = [...]hdrNameEntry{
	{[]byte("content-length"), HdrContentLength},
	{[]byte("transfer-encoding"), HdrTransferEncoding},
	{[]byte("connection"), HdrConnection},
	{[]byte("date"), HdrDate},
	{[]byte("host"), HdrHost},
	{[]byte("expect"), HdrExpect},
	{[]byte("te"), HdrTE},
}

const (
	hnBitsLen   uint = 2
	hnBitsFChar uint = 4
)

var hdrNameLookup [1 << (hnBitsLen + hnBitsFChar)][]hdrNameEntry

func hashHdrName(n []byte) int {
	const (
		mC = (1 << hnBitsFChar) - 1
		mL = (1 << hnBitsLen) - 1
	)
	return (int(bytescase.ByteToLower(n[0])) & mC) |
		((len(n) & mL) << hnBitsFChar)
}

func init() {
	for _, e := range hdrNameTable {
		h := hashHdrName(e.name)
		hdrNameLookup[h] = append(hdrNameLookup[h], e)
	}
}

// getHdrKind returns the HdrKind for a (case-insensitive) header name,
// or HdrOther if it is not one the engine special-cases.
func getHdrKind(name []byte) HdrKind {
	if len(name) == 0 {
		return HdrOther
	}
	h := hashHdrName(name)
	for _, e := range hdrNameLookup[h] {
		if bytescase.CmpEq(name, e.name) {
			return e.kind
		}
	}
	return HdrOther
}

// Header is one parsed "Name: Value" line.
type Header struct {
	Kind  HdrKind
	Name  Span
	Value Span

	state uint8
}

// Reset re-initializes a Header for reuse.
func (h *Header) Reset() { *h = Header{} }

const (
	hInit uint8 = iota
	hName
	hNameEnd
	hBodyStart
	hVal
	hValEnd
	hFIN
)

// errEndOfHeaders is the internal sentinel signalling a blank line was
// found (i.e. the header block is over). It is the analogue of the
// teacher's ErrHdrEmpty.
var errEndOfHeaders = errors.New("h1: end of headers")

// parseHeaderLine parses a single header line (or the header-block
// terminator) starting at offs. On success it returns the offset after
// the line's CRLF and a nil error. It returns errEndOfHeaders (with the
// offset after the terminating blank line) if offs starts a blank line.
// It returns ErrIncomplete if buf runs out first.
func parseHeaderLine(buf []byte, offs int, h *Header) (int, error) {
	i := offs
	for i < len(buf) {
		switch h.state {
		case hInit:
			if buf[i] == '\r' {
				if i+1 >= len(buf) {
					return i, ErrIncomplete
				}
				if buf[i+1] != '\n' {
					return i, ErrMalformed
				}
				h.state = hFIN
				return i + 2, errEndOfHeaders
			}
			if buf[i] == '\n' {
				h.state = hFIN
				return i + 1, errEndOfHeaders
			}
			h.state = hName
			h.Name.Set(i, i)
			fallthrough
		case hName:
			i = skipTokenDelim(buf, i, ':')
			if i >= len(buf) {
				return i, ErrIncomplete
			}
			if buf[i] == ' ' || buf[i] == '\t' {
				h.state = hNameEnd
				h.Name.Extend(i)
				if h.Name.Empty() {
					return i, ErrMalformed
				}
				i++
				continue
			}
			if buf[i] == ':' {
				h.Name.Extend(i)
				if h.Name.Empty() {
					return i, ErrMalformed
				}
				h.Kind = getHdrKind(h.Name.Get(buf))
				h.state = hBodyStart
				i++
				continue
			}
			return i, ErrMalformed
		case hNameEnd:
			i = skipWS(buf, i)
			if i >= len(buf) {
				return i, ErrIncomplete
			}
			if buf[i] != ':' {
				return i, ErrMalformed
			}
			h.Kind = getHdrKind(h.Name.Get(buf))
			h.state = hBodyStart
			i++
		case hBodyStart:
			var err error
			i, _, err = skipLWS(buf, i)
			switch {
			case err == nil:
				h.state = hVal
				h.Value.Set(i, i)
			case errors.Is(err, errEndOfHeaders):
				goto endOfHdr
			default:
				return i, err
			}
		case hVal:
			i = skipFieldContent(buf, i)
			if i >= len(buf) {
				return i, ErrIncomplete
			}
			h.Value.Extend(i)
			h.state = hValEnd
			fallthrough
		case hValEnd:
			var err error
			i, _, err = skipLWS(buf, i)
			switch {
			case err == nil:
				h.state = hVal
			case errors.Is(err, errEndOfHeaders):
				goto endOfHdr
			default:
				return i, err
			}
		default:
			return i, wrapErr(KindMalformed, "invalid header parse state", nil)
		}
	}
	return i, ErrIncomplete
endOfHdr:
	// skipLWS already returned the offset just past the line's CRLF.
	h.state = hFIN
	return i, nil
}

// skipTokenDelim is like skipToken but also stops at delim (used to find
// the ':' terminating a header name even though ':' is not itself a
// valid token character).
func skipTokenDelim(buf []byte, i int, delim byte) int {
	for ; i < len(buf); i++ {
		if buf[i] == delim || !isTokenChar(buf[i]) {
			return i
		}
	}
	return i
}

// skipFieldContent scans forward over header field-content (RFC 7230
// §3.2 field-value: any byte but CR/LF; this engine does not reject
// stray CTL bytes inside a value, only the CR/LF that frames the line),
// stopping at the first CR or LF. Unlike skipToken this does not stop on
// bytes like '/' ',' ':' that are common and legal inside header values
// (e.g. "text/html, text/plain" or a Date header).
func skipFieldContent(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		if buf[i] == '\r' || buf[i] == '\n' {
			return i
		}
	}
	return i
}

func skipWS(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		if buf[i] != ' ' && buf[i] != '\t' {
			return i
		}
	}
	return i
}

// skipLWS skips linear white space, including a folded line continuation
// (CRLF followed by SP/HTAB, obsolete per RFC 7230 §3.2.4 but still seen
// on the wire). It returns the offset of the first non-LWS byte, the
// number of CRLF bytes consumed immediately before that byte (0 unless
// the LWS ended right at a header boundary), and an error: nil on finding
// a non-LWS byte, errEndOfHeaders if a CRLF was followed by another CRLF
// (end of header block) or by a non-continuation byte (end of this
// header's value), or ErrIncomplete if buf runs out mid-sequence. A CRLF
// that ends buf is taken as the end of the header's value
// (errEndOfHeaders), so a folded continuation whose SP/HTAB arrives only
// in a later read is not joined to that value.
func skipLWS(buf []byte, i int) (int, int, error) {
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t':
			i++
		case '\r', '\n':
			end, crl, err := skipCRLF(buf, i)
			if err != nil {
				return i, 0, err
			}
			if end >= len(buf) {
				return end, crl, errEndOfHeaders
			}
			if buf[end] == ' ' || buf[end] == '\t' {
				// folded continuation: treat the CRLF+WS as more LWS.
				i = end
				continue
			}
			return end, crl, errEndOfHeaders
		default:
			return i, 0, nil
		}
	}
	return i, 0, ErrIncomplete
}

// HeaderList is the ordered, duplicate-preserving multi-map of parsed
// headers for one message. Header names are matched case-insensitively
// but Hdrs preserves wire order and original casing (Invariant: "ordered
// multi-map, case-insensitive keys, duplicate keys preserved").
type HeaderList struct {
	Flags HdrFlags
	N     int // total headers stored; parseHeaders fails instead of exceeding maxHeaders
	Hdrs  []Header

	first [int(HdrOther)]Header // first occurrence per recognized kind

	// cur is the header line currently being parsed, carried across
	// separate parseHeaders calls so a line split mid-name or mid-value
	// over two reads resumes correctly instead of restarting into a
	// fresh, state-less Header (grounded on the teacher's HdrLst's
	// HdrLstIState.hdr scratch field).
	cur Header
}

// Reset re-initializes a HeaderList for reuse, keeping its Hdrs backing
// array (as the teacher's HdrLst.Reset does) to avoid reallocating.
func (hl *HeaderList) Reset() {
	hdrs := hl.Hdrs
	for i := range hdrs {
		hdrs[i].Reset()
	}
	*hl = HeaderList{Hdrs: hdrs[:0]}
}

// First returns the first parsed header of the given kind, or nil if
// none was present. Only meaningful for recognized kinds (not HdrOther).
func (hl *HeaderList) First(k HdrKind) *Header {
	if k > HdrNone && k < HdrOther {
		h := &hl.first[k]
		if h.Kind == HdrNone {
			return nil
		}
		return h
	}
	return nil
}

// All returns every parsed header of the given kind, in wire order.
func (hl *HeaderList) All(k HdrKind) []Header {
	var out []Header
	for i := 0; i < hl.N && i < len(hl.Hdrs); i++ {
		if hl.Hdrs[i].Kind == k {
			out = append(out, hl.Hdrs[i])
		}
	}
	return out
}

// Get returns the value text of the first header with the given
// case-insensitive name, and whether one was found. For headers the
// engine does not special-case (HdrOther), this does a linear scan.
func (hl *HeaderList) Get(buf []byte, name string) ([]byte, bool) {
	k := getHdrKind([]byte(name))
	if k != HdrOther {
		h := hl.First(k)
		if h == nil {
			return nil, false
		}
		return h.Value.Get(buf), true
	}
	for i := 0; i < hl.N && i < len(hl.Hdrs); i++ {
		if bytescase.CmpEq(hl.Hdrs[i].Name.Get(buf), []byte(name)) {
			return hl.Hdrs[i].Value.Get(buf), true
		}
	}
	return nil, false
}

// parseHeaders parses headers starting at offs until the blank line that
// terminates the header block, appending each into hl.Hdrs (bounded by
// maxHeaders, per §4.2's "at most 100 headers" limit; exceeding it is
// Malformed, matching the rest of the engine's fail-closed posture on
// malformed framing). It returns the offset after the terminating blank
// line and a nil error on success.
//
// Resumability: if a single header line spans two calls (ErrIncomplete),
// the in-progress line's partial state lives in hl.cur, not a local
// variable, so the next call continues that same line instead of
// reparsing it from scratch against whatever the caller's offs happens
// to be this time.
func parseHeaders(buf []byte, offs int, hl *HeaderList, maxHeaders int) (int, error) {
	i := offs
	for {
		n, err := parseHeaderLine(buf, i, &hl.cur)
		if err == nil {
			h := hl.cur
			hl.cur.Reset()
			if hl.N >= maxHeaders {
				return n, wrapErr(KindMalformed, "too many headers", nil)
			}
			hl.Hdrs = append(hl.Hdrs, h)
			hl.Flags.Set(h.Kind)
			if h.Kind > HdrNone && h.Kind < HdrOther && hl.first[h.Kind].Kind == HdrNone {
				hl.first[h.Kind] = h
			}
			hl.N++
			i = n
			continue
		}
		if errors.Is(err, errEndOfHeaders) {
			hl.cur.Reset()
			return n, nil
		}
		return n, err
	}
}
