package h1

// Transport is the non-blocking byte stream ConnState drives. It is the
// engine's one inbound collaborator for actual I/O; sockets, pipes, or
// an in-memory test double all satisfy it. Read/Write MUST NOT block:
// an implementation backed by a non-blocking socket returns a
// WouldBlock-kind error (see errors.go) instead of blocking, exactly as
// a raw non-blocking fd would via EAGAIN.
type Transport interface {
	// Read reads into p, returning 0, nil at EOF and n, WouldBlock when
	// no data is currently available.
	Read(p []byte) (int, error)
	// Write writes from p, returning a WouldBlock-kind error if the
	// transport's send buffer is full.
	Write(p []byte) (int, error)
	// Writev performs a vectored write when the underlying transport
	// supports it; implementations without real vectored I/O may write
	// each slice in turn. ConnState and Encoder write through Write only
	// and do not call Writev.
	Writev(bufs [][]byte) (int, error)
	// Flush pushes any buffering the transport itself does (e.g.
	// Nagle-coalesced writes); many transports can no-op this.
	Flush() error
}

// Interest is the reactor-facing declaration of which I/O readiness a
// connection currently wants.
type Interest uint8

const (
	InterestNone Interest = iota
	InterestRead
	InterestWrite
	InterestReadWrite
	InterestWait
	InterestRemove
)

func (i Interest) String() string {
	switch i {
	case InterestNone:
		return "None"
	case InterestRead:
		return "Read"
	case InterestWrite:
		return "Write"
	case InterestReadWrite:
		return "ReadWrite"
	case InterestWait:
		return "Wait"
	case InterestRemove:
		return "Remove"
	}
	return "Invalid"
}

// Reactor is the engine's other inbound collaborator: a readiness
// notifier the engine registers interest with and that delivers
// readable/writable/timeout events back. The engine never owns the
// event loop itself — it only reacts to callbacks driven by whatever
// Reactor implementation the embedder supplies (epoll/kqueue/IOCP, or a
// single-threaded test harness).
type Reactor interface {
	Register(t Transport, interest Interest) error
	Reregister(t Transport, interest Interest) error
	Deregister(t Transport) error
}
