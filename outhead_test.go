package h1

import "testing"

func TestOutHeadSetGet(t *testing.T) {
	h := NewResponseHead()
	h.Set("Content-Type", "text/plain")
	v, ok := h.Get("content-type")
	if !ok || v != "text/plain" {
		t.Errorf("Get(content-type) = %q, %v", v, ok)
	}
	if _, ok := h.Get("X-Missing"); ok {
		t.Errorf("Get(X-Missing) should not be found")
	}
}

func TestOutHeadDuplicateHeadersPreserved(t *testing.T) {
	h := NewResponseHead()
	h.Set("Set-Cookie", "a=1")
	h.Set("Set-Cookie", "b=2")
	if len(h.Headers) != 2 {
		t.Fatalf("Headers = %d entries, want 2", len(h.Headers))
	}
}

func TestMethodTokenFallsBackToExt(t *testing.T) {
	h := NewRequestHead(MOther, "/")
	h.MethodExt = "PROPFIND"
	if got := h.methodToken(); got != "PROPFIND" {
		t.Errorf("methodToken = %q, want PROPFIND", got)
	}
}

func TestSerializeHeadRequest(t *testing.T) {
	h := NewRequestHead(MGet, "/index.html")
	h.Set("Host", "example.com")
	out := serializeHead(&h)
	want := "GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"
	if string(out) != want {
		t.Errorf("serializeHead = %q, want %q", out, want)
	}
}

func TestSerializeHeadResponse(t *testing.T) {
	h := NewResponseHead()
	h.Status = NewRawStatus(404)
	h.Set("Content-Length", "0")
	out := serializeHead(&h)
	want := "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n"
	if string(out) != want {
		t.Errorf("serializeHead = %q, want %q", out, want)
	}
}

func TestCanonicalReasonUnknown(t *testing.T) {
	if got := CanonicalReason(799); got != "" {
		t.Errorf("CanonicalReason(799) = %q, want empty", got)
	}
}
