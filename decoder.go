package h1

// DecoderKind selects how a Decoder delimits the body it is reading.
type DecoderKind uint8

const (
	DecEmpty DecoderKind = iota
	DecLength
	DecChunked
	DecCloseDelimited
)

// Decoder reads a message body out of whatever bytes ConnState hands it
// (buffered bytes first, then the transport), applying the framing rule
// MessageCodec picked for this exchange (§4.5). Decode never blocks and
// does not signal "need more bytes" with an error: when src runs out
// before the body does, it returns what it could copy (possibly 0) with a
// nil error, so (0, nil) alone does not mean the body has ended; IsEOF
// tells the two cases apart.
type Decoder struct {
	Kind DecoderKind

	remaining int64      // DecLength: bytes left to read
	chunk     ChunkState // DecChunked: chunk-coding sub-state
	maxHdrs   int        // DecChunked: trailer header cap
	eof       bool       // DecCloseDelimited: set once transport EOF seen

	// pending/pendingPos are the bytes ConnState currently has buffered,
	// bound for the duration of one Handler.OnDecodeReady call (see
	// bindSource/unbindSource). A Handler has no access to ConnState's
	// Buffer or Transport, so Read is the only body-reading entry point
	// available to it; Decode remains the lower-level primitive Read is
	// built on, and is what ConnState/tests drive directly.
	pending    []byte
	pendingPos int
}

// NewEmptyDecoder returns a Decoder that yields no body bytes at all.
func NewEmptyDecoder() Decoder { return Decoder{Kind: DecEmpty} }

// NewLengthDecoder returns a Decoder bound to exactly n body bytes.
func NewLengthDecoder(n int64) Decoder { return Decoder{Kind: DecLength, remaining: n} }

// NewChunkedDecoder returns a Decoder that parses the chunked transfer
// coding, capping trailer headers at maxHeaders (same limit HeadParser
// applies to the head, §4.2).
func NewChunkedDecoder(maxHeaders int) Decoder {
	return Decoder{Kind: DecChunked, maxHdrs: maxHeaders}
}

// NewCloseDelimitedDecoder returns a Decoder that reads until transport
// EOF. Only valid for responses on a connection already not kept alive
// (§4.3), a precondition MessageCodec enforces, not this type.
func NewCloseDelimitedDecoder() Decoder { return Decoder{Kind: DecCloseDelimited} }

// IsEOF reports whether the body has been fully read.
func (d *Decoder) IsEOF() bool {
	switch d.Kind {
	case DecEmpty:
		return true
	case DecLength:
		return d.remaining == 0
	case DecChunked:
		return d.chunk.Done()
	case DecCloseDelimited:
		return d.eof
	}
	return false
}

// Trailers returns the trailer headers parsed for a chunked body, or an
// empty HeaderList for any other Decoder kind or before the terminating
// chunk has been seen.
func (d *Decoder) Trailers() *HeaderList { return &d.chunk.Trailers }

// NoteEOF records that the transport reached EOF; only meaningful for
// DecCloseDelimited, where EOF is exactly what ends the body (§4.3).
func (d *Decoder) NoteEOF() { d.eof = true }

// Decode copies as much body content out of src into dst as fits in
// both, returning how many bytes were copied and how much of src was
// consumed. It never blocks and never returns an error for "need more
// source bytes": with a non-empty dst, n == 0 && !IsEOF() means "come
// back with more src".
//
// chunked bodies may consume src bytes (chunk-size lines, CRLFs,
// trailers) without producing any dst bytes, and one call copies data
// from at most one chunk; a chunk-size line or trailer section that is
// only partly in src is left unconsumed. Callers loop until n == 0 or
// IsEOF() becomes true.
func (d *Decoder) Decode(src []byte, dst []byte) (n int, consumed int, err error) {
	switch d.Kind {
	case DecEmpty:
		return 0, 0, nil
	case DecLength:
		if d.remaining == 0 {
			return 0, 0, nil
		}
		want := d.remaining
		if int64(len(src)) < want {
			want = int64(len(src))
		}
		if int64(len(dst)) < want {
			want = int64(len(dst))
		}
		copy(dst, src[:want])
		d.remaining -= want
		return int(want), int(want), nil
	case DecCloseDelimited:
		n := len(src)
		if len(dst) < n {
			n = len(dst)
		}
		copy(dst, src[:n])
		return n, n, nil
	case DecChunked:
		return d.decodeChunked(src, dst)
	}
	return 0, 0, wrapErr(KindMalformed, "invalid decoder kind", nil)
}

// bindSource gives the Decoder the bytes currently buffered by ConnState,
// so Read can serve a Handler without the Handler ever touching Buffer or
// Transport itself. It must be called before invoking OnDecodeReady and
// paired with unbindSource afterwards.
func (d *Decoder) bindSource(buffered []byte) {
	d.pending = buffered
	d.pendingPos = 0
}

// unbindSource releases the bound source and reports how much of it was
// consumed, so the caller can drop exactly that many bytes from Buffer.
func (d *Decoder) unbindSource() int {
	n := d.pendingPos
	d.pending = nil
	d.pendingPos = 0
	return n
}

// Read copies decoded body bytes into dst from whatever was bound by
// bindSource, the Handler-facing counterpart to Decode. It returns
// (0, nil) both at true end-of-body and when the currently bound source
// is exhausted but the body is not yet complete; callers distinguish the
// two with IsEOF and return Next::Read to be invoked again once more
// bytes are buffered.
func (d *Decoder) Read(dst []byte) (int, error) {
	n, consumed, err := d.Decode(d.pending[d.pendingPos:], dst)
	d.pendingPos += consumed
	return n, err
}

func (d *Decoder) decodeChunked(src []byte, dst []byte) (int, int, error) {
	off, ready, err := d.chunk.Advance(src, 0, d.maxHdrs)
	if err != nil {
		if isIncomplete(err) {
			return 0, off, nil
		}
		return 0, off, err
	}
	if !ready {
		return 0, off, nil // trailers consumed, body fully decoded
	}
	avail := src[off:]
	want := d.chunk.Remain
	if int64(len(avail)) < want {
		want = int64(len(avail))
	}
	if int64(len(dst)) < want {
		want = int64(len(dst))
	}
	copy(dst, avail[:want])
	d.chunk.ConsumeBody(want)
	return int(want), off + int(want), nil
}
