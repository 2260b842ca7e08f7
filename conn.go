package h1

import "time"

// connTop is ConnState's top-level state (§3): Init before a head has
// been seen, Http1 while an exchange is in flight, Closed once done.
type connTop uint8

const (
	topInit connTop = iota
	topHttp1
	topClosed
)

// readState is the read side of an Http1 exchange.
type readState uint8

const (
	rInit readState = iota
	rParse
	rBody
	rWait
	rKeepAlive
	rClosed
)

// writeState is the write side of an Http1 exchange.
type writeState uint8

const (
	wInit writeState = iota
	wHead
	wChunk
	wReady
	wWait
	wKeepAlive
	wClosed
)

// ConnState is the per-connection HTTP/1 state machine: it owns the
// inbound Buffer, the Decoder/Encoder pair for the in-flight exchange,
// a Handler instance, and the keep-alive/version flags, and advances on
// on_readable/on_writable/on_timeout events from a Reactor (§3, §4.7).
// It never blocks and never touches the transport outside those calls.
//
// An exchange starts only in OnReadable, once an incoming head has been
// parsed, so ConnState drives the server role. With RoleClient, Interest
// reports Write from Init but OnWritable does nothing there, and no
// request is ever sent.
type ConnState struct {
	opts    Options
	codec   *MessageCodec
	factory HandlerFactory

	top     connTop
	reading readState
	writing writeState

	buf        Buffer
	headParser HeadParser
	inHead     MessageHead
	dec        Decoder

	handler Handler
	outHead OutHead
	enc     Encoder

	keepAlive bool

	lastReadNext  Next
	lastWriteNext Next

	deadline time.Time
}

// NewConnState creates a ConnState in Init, ready to be registered with
// a Reactor at codec.InitialInterest().
func NewConnState(factory HandlerFactory, opts ...Option) *ConnState {
	o := newOptions(opts...)
	c := &ConnState{
		opts:       o,
		codec:      NewMessageCodec(o.Role, o.MaxHeaders),
		factory:    factory,
		top:        topInit,
		headParser: HeadParser{MaxHeaders: o.MaxHeaders},
	}
	c.enterInit()
	return c
}

// enterInit (re)initializes per-exchange state: a fresh HeadParser,
// MessageHead, and handler, ready for the next request/response pair.
// It is called both when a ConnState is first created and whenever
// keep-alive recycles a connection back to Init (§3 invariant 1).
func (c *ConnState) enterInit() {
	c.top = topInit
	c.reading = rInit
	c.writing = wInit
	c.headParser.Reset()
	c.inHead.Reset()
	c.outHead = OutHead{}
	c.keepAlive = true
	c.handler = nil
}

// Interest reports the I/O readiness this connection currently wants,
// per §4.7's interest computation table.
func (c *ConnState) Interest() Interest {
	if c.top == topInit {
		return c.codec.InitialInterest()
	}
	if c.top == topClosed {
		return InterestRemove
	}
	readWants := c.reading == rParse || c.reading == rBody
	writeWants := c.writing == wHead || c.writing == wChunk || c.writing == wReady
	switch {
	case readWants && writeWants:
		return InterestReadWrite
	case readWants:
		return InterestRead
	case writeWants:
		return InterestWrite
	}
	if c.reading == rKeepAlive && c.writing == wKeepAlive {
		c.enterInit()
		return c.Interest()
	}
	if c.reading == rClosed && c.writing == wClosed {
		c.top = topClosed
		return InterestRemove
	}
	return InterestWait
}

// OnReadable drives the read side for one readable event: reading into
// the buffer and parsing the head (rInit/rParse), or making body bytes
// available to the handler (rBody), per §4.7 "Read path".
func (c *ConnState) OnReadable(t Transport) (Interest, error) {
	if c.top == topClosed {
		return InterestRemove, nil
	}
	if c.top == topInit {
		c.top = topHttp1
		c.reading = rParse
		c.writing = wInit
		c.handler = c.factory.Create()
	}
	switch c.reading {
	case rInit, rParse:
		n, err := c.buf.ReadFrom(t)
		if err != nil {
			if isWouldBlock(err) {
				return c.Interest(), nil
			}
			c.closeBoth()
			return c.Interest(), err
		}
		if n == 0 {
			// transport EOF while parsing a head: nothing to recover.
			c.closeBoth()
			return c.Interest(), nil
		}
		if err := c.tryParseHead(); err != nil {
			if isIncomplete(err) {
				return c.Interest(), nil
			}
			c.closeBoth()
			return c.Interest(), err
		}
		return c.afterHeadParsed(t)
	case rBody:
		return c.deliverBody(t)
	}
	return c.Interest(), nil
}

// tryParseHead attempts to parse the head out of the buffer; on success
// it consumes the parsed bytes and creates the Decoder for this
// exchange.
func (c *ConnState) tryParseHead() error {
	n, err := c.headParser.Parse(c.buf.Bytes(), 0, &c.inHead)
	if err != nil {
		return err
	}
	c.buf.Consume(n)
	dec, forceClose, err := c.codec.Decoder(&c.inHead)
	if err != nil {
		return err
	}
	c.dec = dec
	if c.inHead.Request() {
		c.codec.NoteRequestMethod(c.inHead.Method())
	}
	ka := shouldKeepAlive(versionOf(&c.inHead), &c.inHead.Hdrs, c.inHead.Buf)
	c.keepAlive = c.keepAlive && ka && !forceClose
	return nil
}

// afterHeadParsed invokes OnIncomingHead and applies the resulting Next
// to both reading and writing (§4.7 step 1).
func (c *ConnState) afterHeadParsed(t Transport) (Interest, error) {
	next := c.handler.OnIncomingHead(&c.inHead)
	c.applyReadNext(next)
	c.applyWriteNextOnHeadParsed(next)
	if c.reading == rBody && !c.buf.IsEmpty() {
		return c.OnReadable(t)
	}
	return c.Interest(), nil
}

// deliverBody invokes OnDecodeReady with the buffered+transport body
// bytes and applies the resulting Next (§4.7 step 2).
func (c *ConnState) deliverBody(t Transport) (Interest, error) {
	if c.buf.IsEmpty() && c.dec.Kind != DecEmpty && !c.dec.IsEOF() {
		n, err := c.buf.ReadFrom(t)
		if err != nil {
			if isWouldBlock(err) {
				return c.Interest(), nil
			}
			c.closeBoth()
			return c.Interest(), err
		}
		if n == 0 {
			if c.dec.Kind == DecCloseDelimited {
				c.dec.NoteEOF()
			} else {
				c.closeBoth()
				return c.Interest(), nil
			}
		}
	}
	c.dec.bindSource(c.buf.Bytes())
	next := c.handler.OnDecodeReady(&c.dec)
	c.buf.Consume(c.dec.unbindSource())
	c.applyReadNext(next)
	return c.Interest(), nil
}

// applyReadNext maps a handler Next to the read-side transition table
// in §4.7 "Transitions on Next".
func (c *ConnState) applyReadNext(next Next) {
	c.lastReadNext = next
	switch next.Kind {
	case NextRead, NextReadWrite:
		c.reading = rBody
	case NextWrite:
		if !c.dec.IsEOF() {
			c.reading = rWait
		} else {
			c.reading = c.readEndState()
		}
	case NextWait:
		c.reading = rWait
	case NextEnd:
		c.reading = c.readEndState()
	case NextRemove:
		c.top = topClosed
		c.reading = rClosed
		c.writing = wClosed
	}
}

// readEndState resolves where the read side lands on End/Write-while-
// eof: KeepAlive if both Decoder and (eventually) Encoder reach eof and
// keep_alive holds, else Closed. Since writing may not have reached its
// own End yet, the actual KeepAlive/Init recycle only happens once both
// sides agree (see Interest).
func (c *ConnState) readEndState() readState {
	if !c.dec.IsEOF() {
		return rWait
	}
	if c.keepAlive {
		return rKeepAlive
	}
	return rClosed
}

// applyWriteNextOnHeadParsed seeds the write side once a head has been
// parsed: servers move straight to producing the response head; clients
// (which already wrote their request head before reading) leave writing
// alone.
func (c *ConnState) applyWriteNextOnHeadParsed(next Next) {
	if c.opts.Role == RoleServer && c.writing == wInit {
		c.writing = wHead
	}
}

// OnWritable drives the write side for one writable event (§4.7 "Write
// path").
func (c *ConnState) OnWritable(t Transport) (Interest, error) {
	if c.top == topClosed {
		return InterestRemove, nil
	}
	switch c.writing {
	case wHead:
		next := c.handler.OnOutgoingHead(&c.outHead)
		enc, err := c.codec.Encoder(&c.outHead, time.Now())
		if err != nil {
			c.closeBoth()
			return c.Interest(), err
		}
		c.enc = enc
		c.lastWriteNext = next
		if c.enc.hasPrefix() {
			c.writing = wChunk
		} else {
			c.writing = wReady
			c.applyWriteNext(next)
		}
		return c.OnWritable(t)
	case wChunk:
		if _, err := c.enc.FlushPrefix(t); err != nil {
			if isWouldBlock(err) {
				return c.Interest(), nil
			}
			c.closeBoth()
			return c.Interest(), err
		}
		if c.enc.hasPrefix() {
			return c.Interest(), nil
		}
		c.writing = wReady
		c.applyWriteNext(c.lastWriteNext)
		return c.OnWritable(t)
	case wReady:
		c.enc.bindSink(t)
		next := c.handler.OnEncodeReady(&c.enc)
		c.enc.unbindSink()
		c.applyWriteNext(next)
		return c.Interest(), nil
	}
	return c.Interest(), nil
}

// applyWriteNext maps a handler Next to the write-side transition table
// mirroring applyReadNext.
func (c *ConnState) applyWriteNext(next Next) {
	c.lastWriteNext = next
	switch next.Kind {
	case NextWrite, NextReadWrite:
		c.writing = wReady
	case NextRead:
		if !c.enc.IsEOF() {
			c.writing = wWait
		} else {
			c.writing = c.writeEndState()
		}
	case NextWait:
		c.writing = wWait
	case NextEnd:
		c.writing = c.writeEndState()
	case NextRemove:
		c.top = topClosed
		c.reading = rClosed
		c.writing = wClosed
	}
}

func (c *ConnState) writeEndState() writeState {
	if !c.enc.IsEOF() {
		return wWait
	}
	if c.keepAlive {
		return wKeepAlive
	}
	return wClosed
}

// closeBoth forces both sides to Closed, e.g. on a parse or I/O error.
func (c *ConnState) closeBoth() {
	c.top = topClosed
	c.reading = rClosed
	c.writing = wClosed
}

// OnTimeout transitions to Closed unless continued is true (the caller
// has already consulted the handler and decided to keep going, per
// §4.8: "unless the handler's response to the timeout Next explicitly
// continues").
func (c *ConnState) OnTimeout(continued bool) Interest {
	if !continued {
		c.closeBoth()
	}
	return c.Interest()
}
