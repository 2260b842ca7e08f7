package h1

import "strconv"

// EncoderKind selects how an Encoder frames the body it writes.
type EncoderKind uint8

const (
	EncEmpty EncoderKind = iota
	EncLength
	EncChunked
)

// writer is the minimal transport write contract Encoder needs.
type writer interface {
	Write(p []byte) (int, error)
}

// Encoder writes a message body to whatever sink ConnState hands it,
// applying the framing rule MessageCodec picked for the outgoing
// message (§4.4). An Encoder optionally carries a prefix: serialized
// head bytes not yet flushed. The prefix goes out through its own Write
// call (FlushPrefix, or the first Encode) ahead of any body bytes; head
// and body are not combined into a single transport write.
type Encoder struct {
	Kind EncoderKind

	remaining int64 // EncLength: bytes still allowed

	prefix    []byte // pending head bytes
	prefixPos int    // cursor into prefix

	chunkedDone bool // EncChunked: terminating zero-chunk written

	// chunkFrame/chunkFramePos/chunkMsgLen track a chunk frame ("HEX CRLF
	// data CRLF") that a short write has left partially on the wire,
	// mirroring how Buffer/Decoder track partial reads. While chunkFrame
	// is non-nil, Encode ignores its msg argument and keeps draining the
	// same frame; callers must keep calling Write/Encode (any msg) until
	// the full original length is reported accepted.
	chunkFrame    []byte
	chunkFramePos int
	chunkMsgLen   int

	// sink is the transport bound for the duration of one
	// Handler.OnEncodeReady call (see bindSink/unbindSink). A Handler has
	// no Transport of its own to pass as Encode's w argument, so Write is
	// the only body-writing entry point available to it; Encode remains
	// the lower-level primitive Write is built on.
	sink writer
}

// NewEmptyEncoder returns an Encoder that accepts only zero-length
// writes (e.g. for HEAD responses and 204/304, §4.5).
func NewEmptyEncoder(prefix []byte) Encoder {
	return Encoder{Kind: EncEmpty, prefix: prefix}
}

// NewLengthEncoder returns an Encoder bound to exactly n body bytes;
// writes past that return ErrWriteAfterEOF.
func NewLengthEncoder(n int64, prefix []byte) Encoder {
	return Encoder{Kind: EncLength, remaining: n, prefix: prefix}
}

// NewChunkedEncoder returns an Encoder that wraps each caller write as
// its own chunk; a zero-length write emits the terminating "0\r\n\r\n".
func NewChunkedEncoder(prefix []byte) Encoder {
	return Encoder{Kind: EncChunked, prefix: prefix}
}

// IsEOF reports whether the body is fully written: true for EncEmpty
// immediately, for EncLength once remaining reaches 0, and for
// EncChunked only after a zero-length write has been encoded.
func (e *Encoder) IsEOF() bool {
	switch e.Kind {
	case EncEmpty:
		return true
	case EncLength:
		return e.remaining == 0
	case EncChunked:
		return e.chunkedDone
	}
	return false
}

// hasPrefix reports whether there is prefix data still to flush.
func (e *Encoder) hasPrefix() bool { return e.prefixPos < len(e.prefix) }

// FlushPrefix writes as much of the pending head bytes as w accepts,
// returning the number of bytes written. Once hasPrefix() is false the
// prefix has been fully flushed and Encode can be called.
func (e *Encoder) FlushPrefix(w writer) (int, error) {
	if !e.hasPrefix() {
		return 0, nil
	}
	n, err := w.Write(e.prefix[e.prefixPos:])
	e.prefixPos += n
	return n, err
}

// Encode writes msg to w framed per Kind, first flushing any
// still-pending prefix with a separate Write call; w's Writev, if it has
// one, is not used. It returns how many bytes of msg were accepted.
func (e *Encoder) Encode(w writer, msg []byte) (int, error) {
	switch e.Kind {
	case EncEmpty:
		if len(msg) != 0 {
			return 0, wrapErr(KindHeader, "write to empty encoder", nil)
		}
		return e.flushThenWrite(w, nil)
	case EncLength:
		if e.remaining == 0 {
			if len(msg) == 0 {
				return e.flushThenWrite(w, nil)
			}
			return 0, ErrWriteAfterEOF
		}
		n := int64(len(msg))
		if n > e.remaining {
			n = e.remaining
		}
		written, err := e.flushThenWrite(w, msg[:n])
		e.remaining -= int64(written)
		return written, err
	case EncChunked:
		if e.chunkedDone {
			return 0, ErrWriteAfterEOF
		}
		if e.chunkFrame == nil {
			e.chunkFrame = encodeChunkFrame(msg)
			e.chunkFramePos = 0
			e.chunkMsgLen = len(msg)
		}
		n, err := e.flushThenWrite(w, e.chunkFrame[e.chunkFramePos:])
		e.chunkFramePos += n
		if e.chunkFramePos < len(e.chunkFrame) {
			// short write inside the frame: keep the frame pinned so the
			// next call resumes at chunkFramePos instead of re-framing a
			// (possibly different) msg; report nothing accepted yet.
			return 0, err
		}
		accepted := e.chunkMsgLen
		e.chunkFrame = nil
		e.chunkFramePos = 0
		if err == nil && accepted == 0 {
			e.chunkedDone = true
		}
		return accepted, err
	}
	return 0, wrapErr(KindMalformed, "invalid encoder kind", nil)
}

// bindSink gives the Encoder the transport to write through, so Write can
// serve a Handler without the Handler ever touching Transport itself. It
// must be called before invoking OnEncodeReady and paired with
// unbindSink afterwards.
func (e *Encoder) bindSink(w writer) { e.sink = w }

// unbindSink releases the bound transport.
func (e *Encoder) unbindSink() { e.sink = nil }

// Write encodes msg through whatever transport was bound by bindSink,
// the Handler-facing counterpart to Encode.
func (e *Encoder) Write(msg []byte) (int, error) {
	return e.Encode(e.sink, msg)
}

// flushThenWrite flushes any pending prefix, then writes body, returning
// the number of body bytes written (the prefix is accounted separately
// since it is not part of what the caller asked to send).
func (e *Encoder) flushThenWrite(w writer, body []byte) (int, error) {
	if e.hasPrefix() {
		if _, err := e.FlushPrefix(w); err != nil {
			return 0, err
		}
		if e.hasPrefix() {
			return 0, nil // WouldBlock-equivalent: prefix not fully flushed yet
		}
	}
	if len(body) == 0 {
		return 0, nil
	}
	n, err := w.Write(body)
	return n, err
}

func encodeChunkFrame(msg []byte) []byte {
	size := strconv.FormatInt(int64(len(msg)), 16)
	frame := make([]byte, 0, len(size)+2+len(msg)+2)
	frame = append(frame, size...)
	frame = append(frame, '\r', '\n')
	frame = append(frame, msg...)
	frame = append(frame, '\r', '\n')
	return frame
}
