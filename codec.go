package h1

import (
	"strconv"
	"time"
)

// MessageCodec is the role-specialized glue between the wire and the
// Decoder/Encoder pair for one exchange: it parses the incoming head,
// picks the body framing the head implies, and serializes the outgoing
// head into an Encoder's prefix (§4.5). Body-type selection here is
// grounded on the same rules the teacher package's PMsg.BodyType
// applied (RFC 7230 §3.3.3), generalized to both request and response
// framing and to the role split this engine's client/server modes need.
type MessageCodec struct {
	Role       Role
	MaxHeaders int

	// reqMethod remembers the request method across the request/response
	// pair of one exchange, since response framing depends on it (a
	// response to HEAD never has a body regardless of Content-Length).
	reqMethod Method
}

// NewMessageCodec returns a MessageCodec for the given role.
func NewMessageCodec(role Role, maxHeaders int) *MessageCodec {
	if maxHeaders == 0 {
		maxHeaders = headMaxHeadersDefault
	}
	return &MessageCodec{Role: role, MaxHeaders: maxHeaders}
}

// InitialInterest reports which I/O a freshly-entered connection should
// register for: servers read a request first, clients write one first.
func (c *MessageCodec) InitialInterest() Interest {
	if c.Role == RoleClient {
		return InterestWrite
	}
	return InterestRead
}

// NoteRequestMethod records the method of the request this codec is
// handling, so a later response decoder/encoder selection can apply the
// HEAD/CONNECT special cases.
func (c *MessageCodec) NoteRequestMethod(m Method) { c.reqMethod = m }

// Decoder selects the Decoder for an incoming head just parsed by
// HeadParser, returning also whether keep-alive must be forced off
// (true exactly when CloseDelimited is chosen, §4.3/§9).
func (c *MessageCodec) Decoder(mh *MessageHead) (Decoder, bool, error) {
	if mh.Request() {
		return c.requestDecoder(mh)
	}
	return c.responseDecoder(mh)
}

func (c *MessageCodec) requestDecoder(mh *MessageHead) (Decoder, bool, error) {
	if mh.Method().NoBody() {
		return NewEmptyDecoder(), false, nil
	}
	te, hasTE, err := transferEncodingOf(mh)
	if err != nil {
		return Decoder{}, false, err
	}
	cl, hasCL, err := contentLengthOf(mh)
	if err != nil {
		return Decoder{}, false, err
	}
	if hasTE && hasCL {
		return Decoder{}, false, ErrHeaderConflict
	}
	if hasTE {
		if te != TrEncChunkedF {
			// a request whose final coding isn't chunked leaves no
			// reliable way to find the body end; RFC 7230 §3.3.3 calls
			// this a server error, so fail closed rather than guess.
			return Decoder{}, false, wrapErr(KindHeader, "transfer-encoding without chunked", nil)
		}
		return NewChunkedDecoder(c.MaxHeaders), false, nil
	}
	if hasCL {
		return NewLengthDecoder(cl), false, nil
	}
	return NewEmptyDecoder(), false, nil
}

func (c *MessageCodec) responseDecoder(mh *MessageHead) (Decoder, bool, error) {
	status := mh.FL.Status
	switch {
	case status >= 100 && status < 200,
		status == 204,
		status == 304,
		c.reqMethod == MHead:
		return NewEmptyDecoder(), false, nil
	case c.reqMethod == MConnect && status >= 200 && status <= 299:
		return NewEmptyDecoder(), false, nil
	}
	te, hasTE, err := transferEncodingOf(mh)
	if err != nil {
		return Decoder{}, false, err
	}
	if hasTE && te == TrEncChunkedF {
		return NewChunkedDecoder(c.MaxHeaders), false, nil
	}
	cl, hasCL, err := contentLengthOf(mh)
	if err != nil {
		return Decoder{}, false, err
	}
	if hasCL {
		return NewLengthDecoder(cl), false, nil
	}
	// no framing header at all: body runs to connection close, and
	// keep-alive is incompatible with that (§9 "Close-delimited
	// responses").
	return NewCloseDelimitedDecoder(), true, nil
}

// Encoder serializes headOut as the prefix of the returned Encoder,
// picking the same body framing rules Decoder uses (mirrored per §4.5),
// auto-adding Transfer-Encoding: chunked when the handler left body
// framing unspecified but a body is expected, and auto-adding Date when
// absent (server role only, matching real HTTP/1.1 server behavior).
func (c *MessageCodec) Encoder(headOut *OutHead, now time.Time) (Encoder, error) {
	if headOut.Version == "" {
		headOut.Version = "HTTP/1.1"
	}
	if c.Role == RoleServer {
		if _, ok := headOut.Get("Date"); !ok {
			headOut.Set("Date", now.UTC().Format(httpDateLayout))
		}
	}
	te, hasTE, err := outTransferEncoding(headOut)
	if err != nil {
		return Encoder{}, err
	}
	cl, hasCL, err := outContentLength(headOut)
	if err != nil {
		return Encoder{}, err
	}

	noBody := headOut.Method.NoBody() && headOut.IsRequest
	status := headOut.Status.Code
	if !headOut.IsRequest && (status >= 100 && status < 200 || status == 204 || status == 304) {
		noBody = true
	}
	if c.reqMethod == MHead && !headOut.IsRequest {
		noBody = true
	}
	if c.reqMethod == MConnect && !headOut.IsRequest && status >= 200 && status <= 299 {
		noBody = true
	}

	switch {
	case noBody:
		return NewEmptyEncoder(serializeHead(headOut)), nil
	case hasTE && te == TrEncChunkedF:
		return NewChunkedEncoder(serializeHead(headOut)), nil
	case hasCL:
		return NewLengthEncoder(cl, serializeHead(headOut)), nil
	default:
		// neither CL nor TE chosen by the handler but a body is
		// expected: default to chunked so the exchange stays framed and
		// keep-alive-eligible instead of falling back to close-delimited.
		headOut.Set("Transfer-Encoding", "chunked")
		return NewChunkedEncoder(serializeHead(headOut)), nil
	}
}

const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// transferEncodingOf resolves the (possibly multi-valued) Transfer-
// Encoding header of mh to its last coding, per RFC 7230 §3.3.1 ("If
// any transfer coding other than chunked is applied... the sender MUST
// ... [and] a recipient MUST parse only the final one").
func transferEncodingOf(mh *MessageHead) (TrEnc, bool, error) {
	h := mh.Hdrs.First(HdrTransferEncoding)
	if h == nil {
		return TrEncNone, false, nil
	}
	return lastTrEnc(h.Value.Get(mh.Buf)), true, nil
}

// contentLengthOf resolves Content-Length, requiring every occurrence
// (duplicate headers are legal on the wire but must agree, RFC 7230
// §3.3.2) to parse as the same non-negative decimal integer.
func contentLengthOf(mh *MessageHead) (int64, bool, error) {
	all := mh.Hdrs.All(HdrContentLength)
	if len(all) == 0 {
		return 0, false, nil
	}
	var v int64 = -1
	for _, h := range all {
		n, err := strconv.ParseInt(string(h.Value.Get(mh.Buf)), 10, 64)
		if err != nil || n < 0 {
			return 0, false, ErrHeaderConflict
		}
		if v == -1 {
			v = n
		} else if v != n {
			return 0, false, ErrHeaderConflict
		}
	}
	return v, true, nil
}

// outTransferEncoding is contentLengthOf/transferEncodingOf's analogue
// for a handler-built OutHead, operating on plain strings instead of
// Spans since an OutHead has no backing wire buffer yet.
func outTransferEncoding(h *OutHead) (TrEnc, bool, error) {
	v, ok := h.Get("Transfer-Encoding")
	if !ok {
		return TrEncNone, false, nil
	}
	return lastTrEnc([]byte(v)), true, nil
}

func outContentLength(h *OutHead) (int64, bool, error) {
	v, ok := h.Get("Content-Length")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false, ErrHeaderConflict
	}
	return n, true, nil
}

// serializeHead renders h as wire bytes: request-line or status-line,
// each header as "Name: Value\r\n", terminated by a blank line.
func serializeHead(h *OutHead) []byte {
	var b []byte
	if h.IsRequest {
		b = append(b, h.methodToken()...)
		b = append(b, ' ')
		b = append(b, h.Target...)
		b = append(b, ' ')
		b = append(b, h.Version...)
	} else {
		reason := h.Status.Reason
		if reason == "" {
			reason = CanonicalReason(h.Status.Code)
		}
		b = append(b, h.Version...)
		b = append(b, ' ')
		b = strconv.AppendInt(b, int64(h.Status.Code), 10)
		b = append(b, ' ')
		b = append(b, reason...)
	}
	b = append(b, '\r', '\n')
	for _, f := range h.Headers {
		b = append(b, f.Name...)
		b = append(b, ':', ' ')
		b = append(b, f.Value...)
		b = append(b, '\r', '\n')
	}
	b = append(b, '\r', '\n')
	return b
}
