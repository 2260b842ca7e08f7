package h1

import "testing"

func parseHead(t *testing.T, raw string) *MessageHead {
	t.Helper()
	buf := []byte(raw)
	var mh MessageHead
	var hp HeadParser
	n, err := hp.Parse(buf, 0, &mh)
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	if n != len(buf) {
		t.Fatalf("Parse(%q): n = %d, want %d", raw, n, len(buf))
	}
	return &mh
}

func TestShouldKeepAliveHTTP11Default(t *testing.T) {
	mh := parseHead(t, "GET / HTTP/1.1\r\nHost: a\r\n\r\n")
	if !shouldKeepAlive(versionOf(mh), &mh.Hdrs, mh.Buf) {
		t.Errorf("HTTP/1.1 with no Connection header should keep-alive")
	}
}

func TestShouldKeepAliveHTTP11ConnectionClose(t *testing.T) {
	mh := parseHead(t, "GET / HTTP/1.1\r\nConnection: close\r\n\r\n")
	if shouldKeepAlive(versionOf(mh), &mh.Hdrs, mh.Buf) {
		t.Errorf("Connection: close should disable keep-alive")
	}
}

func TestShouldKeepAliveHTTP10Default(t *testing.T) {
	mh := parseHead(t, "GET / HTTP/1.0\r\n\r\n")
	if shouldKeepAlive(versionOf(mh), &mh.Hdrs, mh.Buf) {
		t.Errorf("HTTP/1.0 with no Connection header should not keep-alive")
	}
}

func TestShouldKeepAliveHTTP10Explicit(t *testing.T) {
	mh := parseHead(t, "GET / HTTP/1.0\r\nConnection: keep-alive\r\n\r\n")
	if !shouldKeepAlive(versionOf(mh), &mh.Hdrs, mh.Buf) {
		t.Errorf("HTTP/1.0 with Connection: keep-alive should keep-alive")
	}
}

func TestConnectionHasMultiToken(t *testing.T) {
	v := []byte("keep-alive, Upgrade")
	if !connectionHas(v, "upgrade") {
		t.Errorf("connectionHas should match case-insensitively among multiple tokens")
	}
	if connectionHas(v, "close") {
		t.Errorf("connectionHas should not match an absent token")
	}
}
