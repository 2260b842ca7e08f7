package h1

import "github.com/intuitivelabs/bytescase"

// RawStatus is a response status code plus its reason phrase: a shared
// canonical string when Code's phrase is the standard one, otherwise
// whatever text the handler (or, for incoming heads, the wire) supplied.
type RawStatus struct {
	Code   uint16
	Reason string
}

// NewRawStatus returns the default RawStatus for code: its canonical
// reason phrase, or "" for a code this engine doesn't know (the caller
// is expected to set Reason explicitly in that case).
func NewRawStatus(code uint16) RawStatus {
	return RawStatus{Code: code, Reason: CanonicalReason(code)}
}

// DefaultStatus is the zero-value response status: 200 OK.
var DefaultStatus = RawStatus{Code: 200, Reason: "OK"}

var canonicalReason = map[uint16]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	408: "Request Timeout",
	409: "Conflict",
	411: "Length Required",
	413: "Payload Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	417: "Expectation Failed",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// CanonicalReason returns the standard reason phrase for code, or "" if
// this engine has no shared constant for it.
func CanonicalReason(code uint16) string { return canonicalReason[code] }

// HeaderField is one name/value pair of an OutHead, set directly by a
// Handler rather than parsed from the wire (it has no Span into a
// shared input buffer, unlike Header).
type HeaderField struct {
	Name  string
	Value string
}

// OutHead is the head a Handler builds to send: a request (client role)
// or a response (server role). It plays the role MessageHead plays for
// parsed incoming heads, but as a plain builder instead of Spans into a
// wire buffer, since an outgoing head doesn't exist as bytes until
// MessageCodec.Encoder serializes it.
type OutHead struct {
	// Request fields, used when IsRequest is true (client role).
	IsRequest bool
	Method    Method
	MethodExt string // wire text when Method == MOther
	Target    string

	// Response fields, used when IsRequest is false (server role).
	Status RawStatus

	Version string // defaults to "HTTP/1.1"
	Headers []HeaderField
}

// NewResponseHead returns an OutHead for a 200 OK response with no
// headers set.
func NewResponseHead() OutHead {
	return OutHead{IsRequest: false, Status: DefaultStatus, Version: "HTTP/1.1"}
}

// NewRequestHead returns an OutHead for a request with the given method
// and target, no headers set.
func NewRequestHead(method Method, target string) OutHead {
	return OutHead{IsRequest: true, Method: method, Target: target, Version: "HTTP/1.1"}
}

// Set appends a header; unlike a real multi-map this never deduplicates,
// matching the wire's own "duplicate keys preserved" rule.
func (h *OutHead) Set(name, value string) {
	h.Headers = append(h.Headers, HeaderField{Name: name, Value: value})
}

// Get returns the value of the first header with the given
// case-insensitive name.
func (h *OutHead) Get(name string) (string, bool) {
	for _, f := range h.Headers {
		if bytescase.CmpEq([]byte(f.Name), []byte(name)) {
			return f.Value, true
		}
	}
	return "", false
}

// methodToken returns the wire text for the request method.
func (h *OutHead) methodToken() string {
	if h.Method == MOther && h.MethodExt != "" {
		return h.MethodExt
	}
	return h.Method.String()
}
