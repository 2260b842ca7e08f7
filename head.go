package h1

// MessageHead is the fully parsed request-line/status-line plus headers
// of one HTTP/1.x message, the unit HeadParser hands to a Handler. It
// does not include the body: bodies are streamed separately through a
// Decoder once the head is known (see codec.go).
type MessageHead struct {
	FL   FirstLine
	Hdrs HeaderList

	// Buf is the byte slice the head was parsed from; FL and Hdrs' Spans
	// are offsets into it. Raw is the slice of Buf holding exactly this
	// head, from the first byte of the request/status line up to and
	// including the blank line that ends the headers.
	Buf []byte
	Raw []byte

	hdrsBacking [16]Header // avoids an allocation for the common case
}

// Reset re-initializes a MessageHead for reuse, keeping Hdrs' backing
// array.
func (mh *MessageHead) Reset() {
	hdrs := mh.Hdrs.Hdrs
	*mh = MessageHead{hdrsBacking: mh.hdrsBacking}
	if hdrs != nil {
		hdrs = hdrs[:0]
	} else {
		hdrs = mh.hdrsBacking[:0]
	}
	mh.Hdrs.Hdrs = hdrs
}

// Request reports whether the parsed head is a request.
func (mh *MessageHead) Request() bool { return mh.FL.Request() }

// Method returns the request method, or MUndef for a response head.
func (mh *MessageHead) Method() Method {
	if mh.Request() {
		return mh.FL.MethodNo
	}
	return MUndef
}

const headMaxHeadersDefault = 100

// headState drives HeadParser.Parse across however many reads it takes
// to see a whole head.
type headState uint8

const (
	headFLine headState = iota
	headHdrs
	headDone
)

// HeadParser incrementally parses a request-line/status-line and the
// header block that follows it (RFC 7230 §3), stopping right after the
// blank line that ends the headers. Like the other parsers it is
// resumable: Parse can be called again with a longer buf (same content,
// more appended) and the same HeadParser picks up where it left off.
type HeadParser struct {
	MaxHeaders int // 0 means headMaxHeadersDefault

	state headState

	// pos is the absolute byte offset Parse actually stopped at on the
	// last incomplete call, -1 when no parse is in progress. A caller is
	// only required to pass a stable offs on the very first call of a
	// head (the true start of the head in buf); every resumed call uses
	// pos instead, since offs alone cannot tell a later sub-parser (e.g.
	// parseHeaders once the first line is already done) where within buf
	// its own parsing actually left off.
	pos int
}

// Reset re-initializes a HeadParser for reuse (MaxHeaders is preserved).
func (p *HeadParser) Reset() {
	p.state = headFLine
	p.pos = -1
}

// Done reports whether Parse has returned successfully.
func (p *HeadParser) Done() bool { return p.state == headDone }

// Parse parses the first line and headers of mh starting at offs in
// buf, filling mh.FL and mh.Hdrs. On success it returns the offset right
// after the header block's terminating blank line and a nil error, and
// sets mh.Buf/mh.Raw. It returns ErrIncomplete if buf does not yet
// contain a whole head, ErrMalformed-kind errors on a malformed head, and
// ErrVersion once a whole head has been parsed whose version is neither
// HTTP/1.0 nor HTTP/1.1 (see errors.go); the caller is expected to fail
// the connection, not retry, on anything other than ErrIncomplete.
func (p *HeadParser) Parse(buf []byte, offs int, mh *MessageHead) (int, error) {
	maxHdrs := p.MaxHeaders
	if maxHdrs == 0 {
		maxHdrs = headMaxHeadersDefault
	}
	i := offs
	if p.pos >= 0 {
		i = p.pos
	}
	var err error
	switch p.state {
	case headFLine:
		if i, err = parseFirstLine(buf, i, &mh.FL); err != nil {
			p.pos = i
			return i, err
		}
		p.state = headHdrs
		fallthrough
	case headHdrs:
		if i, err = parseHeaders(buf, i, &mh.Hdrs, maxHdrs); err != nil {
			p.pos = i
			return i, err
		}
		p.state = headDone
	case headDone:
		return i, nil
	}
	p.pos = -1
	mh.Buf = buf[:i]
	mh.Raw = mh.Buf[offs:i]
	if versionOf(mh) == httpVerUnknown {
		return i, ErrVersion
	}
	return i, nil
}
