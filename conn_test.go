package h1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// memTransport is an in-memory Transport double: Read drains an inbound
// buffer (returning ErrWouldBlock once it is empty but not yet marked
// eof), Write appends to an outbound buffer.
type memTransport struct {
	in    []byte
	inPos int
	eof   bool
	out   []byte
}

func (m *memTransport) Read(p []byte) (int, error) {
	if m.inPos >= len(m.in) {
		if m.eof {
			return 0, nil
		}
		return 0, ErrWouldBlock
	}
	n := copy(p, m.in[m.inPos:])
	m.inPos += n
	return n, nil
}

func (m *memTransport) Write(p []byte) (int, error) {
	m.out = append(m.out, p...)
	return len(p), nil
}

func (m *memTransport) Writev(bufs [][]byte) (int, error) {
	var total int
	for _, b := range bufs {
		n, err := m.Write(b)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (m *memTransport) Flush() error { return nil }

// echoHandler replies with a fixed-length body equal to the request
// body it read, used to drive ConnState end-to-end in tests.
type echoHandler struct {
	body []byte
}

func (h *echoHandler) OnIncomingHead(head *MessageHead) Next {
	return Read()
}

func (h *echoHandler) OnDecodeReady(dec *Decoder) Next {
	buf := make([]byte, 256)
	for !dec.IsEOF() {
		n, _ := dec.Read(buf)
		if n == 0 {
			break
		}
		h.body = append(h.body, buf[:n]...)
	}
	if dec.IsEOF() {
		return Write()
	}
	return Read()
}

func (h *echoHandler) OnOutgoingHead(headOut *OutHead) Next {
	headOut.Status = NewRawStatus(200)
	headOut.Set("Content-Length", itoa(len(h.body)))
	return Write()
}

func (h *echoHandler) OnEncodeReady(enc *Encoder) Next {
	enc.Write(h.body)
	return End()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

type echoFactory struct{}

func (echoFactory) Create() Handler { return &echoHandler{} }

func TestConnStateGetNoBody(t *testing.T) {
	cs := NewConnState(echoFactory{}, WithRole(RoleServer))
	tr := &memTransport{in: []byte("GET / HTTP/1.1\r\nHost: a\r\n\r\n")}

	_, err := cs.OnReadable(tr)
	require.NoError(t, err)
	_, err = cs.OnWritable(tr)
	require.NoError(t, err)

	require.Contains(t, string(tr.out), "HTTP/1.1 200 OK\r\n")
	require.Contains(t, string(tr.out), "Content-Length: 0\r\n")
}

func TestConnStatePostContentLength(t *testing.T) {
	cs := NewConnState(echoFactory{}, WithRole(RoleServer))
	req := "POST /echo HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"
	tr := &memTransport{in: []byte(req)}

	_, err := cs.OnReadable(tr)
	require.NoError(t, err)
	_, err = cs.OnWritable(tr)
	require.NoError(t, err)

	require.Contains(t, string(tr.out), "Content-Length: 5\r\n")
	require.Contains(t, string(tr.out), "hello")
}

func TestConnStatePostChunked(t *testing.T) {
	cs := NewConnState(echoFactory{}, WithRole(RoleServer))
	req := "POST /echo HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n"
	tr := &memTransport{in: []byte(req)}

	_, err := cs.OnReadable(tr)
	require.NoError(t, err)
	_, err = cs.OnWritable(tr)
	require.NoError(t, err)

	require.Contains(t, string(tr.out), "Content-Length: 9\r\n")
	require.Contains(t, string(tr.out), "Wikipedia")
}

func TestConnStateHeadInitialInterestServer(t *testing.T) {
	cs := NewConnState(echoFactory{}, WithRole(RoleServer))
	require.Equal(t, InterestRead, cs.Interest())
}

func TestConnStateHeadSplitAcrossReads(t *testing.T) {
	// request-line plus one full header arrive in the first read; the
	// blank line ending the head only arrives in a second, independent
	// read. Regression test for a HeadParser that forgot where the
	// previous read stopped and re-scanned the request-line as a header.
	cs := NewConnState(echoFactory{}, WithRole(RoleServer))
	tr := &memTransport{in: []byte("GET / HTTP/1.1\r\nHost: example.com\r\n")}

	interest, err := cs.OnReadable(tr)
	require.NoError(t, err)
	require.Equal(t, InterestRead, interest)

	tr.in = append(tr.in, []byte("\r\n")...)
	_, err = cs.OnReadable(tr)
	require.NoError(t, err)

	_, err = cs.OnWritable(tr)
	require.NoError(t, err)
	require.Contains(t, string(tr.out), "HTTP/1.1 200 OK\r\n")
}

func TestConnStateWouldBlockKeepsReading(t *testing.T) {
	cs := NewConnState(echoFactory{}, WithRole(RoleServer))
	tr := &memTransport{in: []byte("GET / HTTP"), eof: false}
	interest, err := cs.OnReadable(tr)
	require.NoError(t, err)
	require.Equal(t, InterestRead, interest)

	// the transport is drained but not at EOF, so Read returns
	// ErrWouldBlock; the connection must keep waiting to read.
	interest, err = cs.OnReadable(tr)
	require.NoError(t, err)
	require.Equal(t, InterestRead, interest)
}
