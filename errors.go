package h1

import "fmt"

// ErrKind classifies the errors the engine distinguishes, per the error
// handling design: a small closed set of reasons a parse, decode, or
// transition can fail, so callers can match on Kind instead of string
// comparison.
type ErrKind uint8

const (
	// KindNone means no error occurred.
	KindNone ErrKind = iota
	// KindIncomplete means the parser needs more bytes; not a real error,
	// the equivalent of the teacher's ErrHdrMoreBytes. Callers hold state
	// and call again once more bytes arrive.
	KindIncomplete
	// KindMalformed means the request/status line or a header is invalid.
	KindMalformed
	// KindTooLarge means the inbound buffer exceeded MaxBufferSize while
	// still parsing a head.
	KindTooLarge
	// KindVersion means an unsupported HTTP version was seen.
	KindVersion
	// KindHeader means contradictory framing headers were present (e.g.
	// two differing Content-Length values, or both Content-Length and
	// Transfer-Encoding on a request).
	KindHeader
	// KindIO wraps a transport error that is not WouldBlock/Interrupted.
	KindIO
	// KindTimeout means the reactor delivered a timeout with no recovery.
	KindTimeout
	// KindWouldBlock means a transport operation would have blocked; not
	// a real error, the non-blocking-I/O equivalent of KindIncomplete.
	// ConnState preserves its state and returns control to the reactor.
	KindWouldBlock
)

func (k ErrKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIncomplete:
		return "incomplete"
	case KindMalformed:
		return "malformed"
	case KindTooLarge:
		return "too large"
	case KindVersion:
		return "version"
	case KindHeader:
		return "header"
	case KindIO:
		return "io"
	case KindTimeout:
		return "timeout"
	case KindWouldBlock:
		return "would block"
	default:
		return "unknown"
	}
}

// Error is the error type returned by parsing and decoding functions.
// It wraps an ErrKind plus an optional underlying cause, so both
// errors.Is(err, ErrIncomplete) style matching and err.Error() human text
// work.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // underlying cause, e.g. a transport error; may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("h1: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("h1: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrIncomplete) etc. by comparing Kind, since
// sentinel *Error values below are compared by identity first and by Kind
// as a fallback for freshly constructed errors of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapErr(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Sentinel errors for common cases; compare with errors.Is.
var (
	// ErrIncomplete signals a parser needs more input bytes; it is the
	// resumability contract: callers retain their parsing state and
	// invoke the same parse function again once more bytes are buffered.
	ErrIncomplete = newErr(KindIncomplete, "need more bytes")
	// ErrMalformed signals an invalid request/status line or header.
	ErrMalformed = newErr(KindMalformed, "malformed message")
	// ErrTooLarge signals the inbound buffer exceeded its configured cap.
	ErrTooLarge = newErr(KindTooLarge, "buffer exceeds limit")
	// ErrVersion signals an unsupported HTTP version.
	ErrVersion = newErr(KindVersion, "unsupported version")
	// ErrHeaderConflict signals contradictory framing headers.
	ErrHeaderConflict = newErr(KindHeader, "conflicting framing headers")
	// ErrWriteAfterEOF signals a write attempted on an Encoder that has
	// already reached is_eof (e.g. past Length(0), or into an Empty
	// encoder).
	ErrWriteAfterEOF = newErr(KindHeader, "write after body eof")
	// ErrWouldBlock signals a transport operation would have blocked.
	ErrWouldBlock = newErr(KindWouldBlock, "would block")
)

// isIncomplete reports whether err is the "need more bytes" sentinel.
func isIncomplete(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindIncomplete
}

// isWouldBlock reports whether err is the "would have blocked" sentinel
// a Transport returns instead of blocking.
func isWouldBlock(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindWouldBlock
}
