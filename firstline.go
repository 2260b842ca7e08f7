package h1

import (
	"github.com/intuitivelabs/bytescase"
)

// FirstLine holds the parsed request-line or status-line of an HTTP/1.x
// message, resumable across short reads the same way the teacher's
// PFLine is: state lives in the struct, not on the call stack.
type FirstLine struct {
	Status     uint16 // reply status code, 0 for requests
	MethodNo   Method
	Method     Span // request method token, empty for replies
	Target     Span // request-target, empty for replies
	Version    Span // "HTTP/1.0" or "HTTP/1.1", common to both
	StatusCode Span // reply status as wire text, empty for requests
	Reason     Span // reply reason phrase, empty for requests

	state uint8
}

// Reset re-initializes the first line and its parsing state.
func (fl *FirstLine) Reset() { *fl = FirstLine{} }

// Request reports whether the parsed line is a request-line.
func (fl *FirstLine) Request() bool { return fl.Status == 0 }

// Empty reports whether nothing has been parsed yet.
func (fl *FirstLine) Empty() bool { return fl.state == flInit }

// Parsed reports whether the first line is fully parsed.
func (fl *FirstLine) Parsed() bool { return fl.state == flFIN }

const (
	flInit uint8 = iota
	flReqMethod
	flReqTarget
	flReqVer
	flRplStatus
	flRplReason
	flCRLF
	flFIN
)

var httpVerPrefix = []byte("HTTP/")
var httpVerSP = []byte("HTTP/1.0 ") // same length as any "HTTP/x.y "

// skipTargetChars scans forward over a request-target (RFC 7230 §5.3:
// origin-form, absolute-form, authority-form, or asterisk-form), stopping
// at the first SP, CR, LF, or other control byte. Unlike skipToken this
// does not stop on '/' '?' '%' ':' etc., which are ordinary and expected
// inside a request-target.
func skipTargetChars(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		c := buf[i]
		if c <= 0x20 || c == 0x7f {
			return i
		}
	}
	return i
}

// parseFirstLine parses the request-line or status-line starting at
// offs in buf, filling fl. It returns the offset immediately after the
// terminating CRLF and a nil error on success. If the line is not fully
// contained in buf[offs:], it returns ErrIncomplete and an offset at
// which the same call can be resumed once more bytes are appended to
// buf (with the same fl, unmodified by the caller).
func parseFirstLine(buf []byte, offs int, fl *FirstLine) (int, error) {
	// grammar:
	//   request: method SP request-target SP version CRLF
	//   reply:   version SP status SP reason CRLF
	//
	// Driven by an explicit for/switch/continue instead of fallthrough so
	// every state, including the reply path's, is its own case and can be
	// resumed directly: a plain fallthrough chain can only ever continue
	// into the textually-next case, which left the reply path with no way
	// to land back in the right place after an incomplete read.
	i := offs
	for {
		switch fl.state {
		case flInit:
			if (len(buf) - i) < (len(httpVerSP) + 3 /* SP+CRLF */ + 3 /* status */) {
				return i, ErrIncomplete
			}
			if l, match := bytescase.Prefix(httpVerPrefix, buf[i:]); match {
				// "HTTP/" prefix => status-line; parse the version digits.
				l += i
				var majorEmpty = true
				var dotSeen bool
			verloop:
				for ; l < len(buf); l++ {
					switch buf[l] {
					case '.':
						if dotSeen {
							return l, ErrMalformed
						}
						dotSeen = true
						majorEmpty = false
					case ' ':
						break verloop
					case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
						majorEmpty = false
					default:
						return l, ErrMalformed
					}
				}
				if l >= len(buf) {
					// state stays flInit: nothing has been anchored yet,
					// so the next call just re-enters this same case.
					return i, ErrIncomplete
				}
				if majorEmpty {
					return l, ErrMalformed
				}
				fl.Version.Set(i, l)
				fl.state = flRplStatus
				continue
			}
			// not "HTTP/" => request; parse method token.
			fl.state = flReqMethod
			fl.Method.Set(i, i)
			continue
		case flReqMethod:
			i = skipToken(buf, i)
			if i >= len(buf) {
				return i, ErrIncomplete
			}
			if buf[i] != ' ' {
				return i, ErrMalformed
			}
			fl.Method.Extend(i)
			if fl.Method.Empty() {
				return i, ErrMalformed
			}
			fl.MethodNo = getMethodNo(fl.Method.Get(buf))
			i++
			fl.state = flReqTarget
			fl.Target.Set(i, i)
			continue
		case flReqTarget:
			i = skipTargetChars(buf, i)
			if i >= len(buf) {
				return i, ErrIncomplete
			}
			if buf[i] != ' ' {
				return i, ErrMalformed
			}
			fl.Target.Extend(i)
			if fl.Target.Empty() {
				return i, ErrMalformed
			}
			i++
			fl.state = flReqVer
			fl.Version.Set(i, i)
			continue
		case flReqVer:
			i = skipFieldContent(buf, i)
			if i >= len(buf) {
				return i, ErrIncomplete
			}
			if buf[i] != '\r' && buf[i] != '\n' {
				return i, ErrMalformed
			}
			fl.Version.Extend(i)
			if fl.Version.Empty() {
				return i, ErrMalformed
			}
			fl.state = flCRLF
			continue
		case flCRLF:
			end, _, err := skipCRLF(buf, i)
			if err != nil {
				return end, err
			}
			i = end
			fl.state = flFIN
			return i, nil
		case flRplStatus:
			// fl.Version is already anchored (Set right before this state
			// was entered), so the status code always starts one byte
			// past its end; re-deriving i from it rather than trusting
			// offs covers both points upstream that can return
			// ErrIncomplete already in this state.
			i = fl.Version.End() + 1
			if i+3 >= len(buf) {
				return i, ErrIncomplete
			}
			if buf[i+3] != ' ' ||
				!(buf[i] >= '0' && buf[i] <= '9') ||
				!(buf[i+1] >= '0' && buf[i+1] <= '9') ||
				!(buf[i+2] >= '0' && buf[i+2] <= '9') {
				return i, ErrMalformed
			}
			fl.StatusCode.Set(i, i+3)
			fl.Status = uint16(buf[i]-'0')*100 + uint16(buf[i+1]-'0')*10 + uint16(buf[i+2]-'0')
			i += 4 // skip status + SP
			fl.Reason.Set(i, i)
			fl.state = flRplReason
			continue
		case flRplReason:
			end, crl, err := skipLine(buf, i)
			if err != nil {
				return i, err
			}
			fl.Reason.Extend(end - crl)
			i = end
			fl.state = flFIN
			return i, nil
		}
	}
}
