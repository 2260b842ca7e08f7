package h1

// MaxBufferSize is the hard cap on how many unconsumed bytes a Buffer
// will hold while still accumulating a head (8KiB initial allocation
// plus headroom for up to 100 4KiB reads). A connection that exceeds
// this while still parsing a head is TooLarge, not malformed: the bytes
// it has seen so far may well be valid HTTP, there are just too many of
// them.
const MaxBufferSize = 8192 + 4096*100

// Buffer accumulates bytes read from a transport until HeadParser (and
// later the Decoder) has consumed them. It never reallocates in a way
// that invalidates a previously returned Bytes() slice except across a
// ReadFrom/Consume call, matching the Span offsets into it held by
// FirstLine/HeaderList/MessageHead for as long as the same underlying
// array is kept.
type Buffer struct {
	buf  []byte
	read int // number of bytes already consumed from the front
}

// Reset drops all buffered data.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.read = 0
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int { return len(b.buf) - b.read }

// IsEmpty reports whether there are no unconsumed bytes.
func (b *Buffer) IsEmpty() bool { return b.Len() == 0 }

// Bytes returns the unconsumed bytes. The returned slice is only valid
// until the next ReadFrom or Consume call.
func (b *Buffer) Bytes() []byte { return b.buf[b.read:] }

// Consume drops the first n unconsumed bytes. It compacts the backing
// array once nothing is left referencing the consumed prefix, so a
// connection's Buffer does not grow without bound across many
// keep-alive exchanges.
func (b *Buffer) Consume(n int) {
	b.read += n
	if b.read > len(b.buf) {
		b.read = len(b.buf)
	}
	if b.read == len(b.buf) {
		b.buf = b.buf[:0]
		b.read = 0
	}
}

// reader is the minimal transport read contract Buffer needs; satisfied
// by Transport (see transport.go). It is declared locally so Buffer
// itself does not import transport.go's broader interface.
type reader interface {
	Read(p []byte) (int, error)
}

// ReadFrom appends bytes read from t into the buffer, growing it as
// needed, and returns the number of bytes appended and an error. A
// WouldBlock-kind error with n == 0 means try again later; n == 0 with a
// nil error means EOF (mirrors the teacher's non-blocking read idiom
// throughout this package: zero-length non-error reads never happen on
// a real socket, so callers can treat n==0,err==nil as EOF
// unambiguously).
//
// It fails with a TooLarge-kind *Error, without reading, if the buffer
// is already at MaxBufferSize: callers in the Parse state must not call
// ReadFrom again after that until bytes are consumed.
func (b *Buffer) ReadFrom(t reader) (int, error) {
	if b.read > 0 {
		copy(b.buf, b.buf[b.read:])
		b.buf = b.buf[:len(b.buf)-b.read]
		b.read = 0
	}
	if len(b.buf) >= MaxBufferSize {
		return 0, newErr(KindTooLarge, "buffer exceeds limit")
	}
	free := cap(b.buf) - len(b.buf)
	if free < 4096 {
		grown := make([]byte, len(b.buf), grow(cap(b.buf)))
		copy(grown, b.buf)
		b.buf = grown
		free = cap(b.buf) - len(b.buf)
	}
	if avail := MaxBufferSize - len(b.buf); free > avail {
		free = avail
	}
	end := len(b.buf)
	b.buf = b.buf[:end+free]
	n, err := t.Read(b.buf[end:])
	b.buf = b.buf[:end+n]
	return n, err
}

func grow(c int) int {
	if c == 0 {
		return 8192
	}
	next := c * 2
	if next > MaxBufferSize {
		next = MaxBufferSize
	}
	return next
}
