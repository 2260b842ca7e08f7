package h1

import "time"

// NextKind is the directive a Handler returns from each callback,
// telling ConnState what I/O interest to register next (§4.6).
type NextKind uint8

const (
	NextRead NextKind = iota
	NextWrite
	NextReadWrite
	NextWait
	NextEnd
	NextRemove
)

func (k NextKind) String() string {
	switch k {
	case NextRead:
		return "Read"
	case NextWrite:
		return "Write"
	case NextReadWrite:
		return "ReadWrite"
	case NextWait:
		return "Wait"
	case NextEnd:
		return "End"
	case NextRemove:
		return "Remove"
	}
	return "Invalid"
}

// Next is the handler-to-engine instruction selecting the connection's
// next interest plus an optional timeout. A zero Timeout means none.
type Next struct {
	Kind    NextKind
	Timeout time.Duration
}

// Read, Write, ReadWrite, Wait, End and Remove are convenience
// constructors for the common no-timeout case.
func Read() Next      { return Next{Kind: NextRead} }
func Write() Next     { return Next{Kind: NextWrite} }
func ReadWrite() Next { return Next{Kind: NextReadWrite} }
func Wait() Next      { return Next{Kind: NextWait} }
func End() Next       { return Next{Kind: NextEnd} }
func Remove() Next    { return Next{Kind: NextRemove} }

// WithTimeout returns n with Timeout set to d.
func (n Next) WithTimeout(d time.Duration) Next {
	n.Timeout = d
	return n
}

// Handler is the four-callback contract a user implements per exchange.
// The engine owns exactly one Handler instance per exchange, created by
// a HandlerFactory on entry to Init and dropped when the exchange ends.
// Handlers MUST NOT block: every callback runs on the reactor's thread
// for this connection and a blocking call there stalls every other
// connection sharing that thread (§5).
type Handler interface {
	// OnIncomingHead is called once the request (server role) or
	// response (client role) head has been fully parsed.
	OnIncomingHead(head *MessageHead) Next
	// OnDecodeReady is called when body bytes are available to read
	// through dec.Read; the handler decides how much of it to consume.
	// dec.Decode is the lower-level primitive Read is built on and is not
	// meant to be called from inside a Handler, which has no body source
	// bytes of its own to pass as its src argument.
	OnDecodeReady(dec *Decoder) Next
	// OnOutgoingHead is called when it is time to produce the head this
	// side sends; the handler fills in headOut.
	OnOutgoingHead(headOut *OutHead) Next
	// OnEncodeReady is called when the transport is writable and this
	// side has a body to produce through enc.Write; enc.Encode is the
	// lower-level primitive Write is built on and is not meant to be
	// called from inside a Handler, which has no transport of its own to
	// pass as its w argument.
	OnEncodeReady(enc *Encoder) Next
}

// HandlerFactory creates a Handler for a newly-entered exchange. It may
// be shared read-mostly across connections (including across reactor
// threads) and must tolerate concurrent Create calls; the Handler it
// returns is then owned exclusively by one connection (§5).
type HandlerFactory interface {
	Create() Handler
}

// HandlerFactoryFunc adapts a plain function to HandlerFactory.
type HandlerFactoryFunc func() Handler

func (f HandlerFactoryFunc) Create() Handler { return f() }
