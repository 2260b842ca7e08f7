package h1

import "testing"

func TestParseHeaderLineBasic(t *testing.T) {
	buf := []byte("Content-Type: text/html; charset=utf-8\r\n")
	var h Header
	n, err := parseHeaderLine(buf, 0, &h)
	if err != nil {
		t.Fatalf("parseHeaderLine: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("n = %d, want %d", n, len(buf))
	}
	if got := string(h.Name.Get(buf)); got != "Content-Type" {
		t.Errorf("Name = %q", got)
	}
	if got := string(h.Value.Get(buf)); got != "text/html; charset=utf-8" {
		t.Errorf("Value = %q", got)
	}
	if h.Kind != HdrOther {
		t.Errorf("Kind = %v, want HdrOther", h.Kind)
	}
}

func TestParseHeaderLineValueWithSlashesAndCommas(t *testing.T) {
	// a naive token-charset scanner for header values would loop forever
	// on bytes like '/' and ',' that aren't token chars but also aren't
	// whitespace; this is the regression case for that.
	buf := []byte("Accept: text/html, application/json;q=0.9, */*;q=0.1\r\n")
	var h Header
	n, err := parseHeaderLine(buf, 0, &h)
	if err != nil {
		t.Fatalf("parseHeaderLine: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("n = %d, want %d", n, len(buf))
	}
	want := "text/html, application/json;q=0.9, */*;q=0.1"
	if got := string(h.Value.Get(buf)); got != want {
		t.Errorf("Value = %q, want %q", got, want)
	}
}

func TestParseHeaderLineIncremental(t *testing.T) {
	full := []byte("X-Test: hello world\r\n")
	var h Header
	for split := 1; split < len(full); split++ {
		h.Reset()
		n, err := parseHeaderLine(full[:split], 0, &h)
		if err == nil {
			// some split points may happen to land exactly after CRLF
			// only at split == len(full), never before.
			t.Fatalf("split %d: unexpected success at n=%d", split, n)
		}
		if !isIncomplete(err) {
			t.Fatalf("split %d: err = %v, want incomplete", split, err)
		}
	}
	n, err := parseHeaderLine(full, 0, &h)
	if err != nil {
		t.Fatalf("final parse: %v", err)
	}
	if n != len(full) {
		t.Fatalf("n = %d, want %d", n, len(full))
	}
}

func TestParseHeaderLineFolded(t *testing.T) {
	buf := []byte("X-Folded: first\r\n second\r\n")
	var h Header
	n, err := parseHeaderLine(buf, 0, &h)
	if err != nil {
		t.Fatalf("parseHeaderLine: %v", err)
	}
	want := "first\r\n second"
	if got := string(h.Value.Get(buf)); got != want {
		t.Errorf("Value = %q, want %q", got, want)
	}
	if n != len(buf) {
		t.Fatalf("n = %d, want %d", n, len(buf))
	}
}

func TestParseHeaderLineEmptyLineEndsHeaders(t *testing.T) {
	buf := []byte("\r\n")
	var h Header
	n, err := parseHeaderLine(buf, 0, &h)
	if err != errEndOfHeaders {
		t.Fatalf("err = %v, want errEndOfHeaders", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
}

func TestParseHeadersMaxHeadersCap(t *testing.T) {
	buf := []byte("A: 1\r\nB: 2\r\nC: 3\r\n\r\n")
	var hl HeaderList
	if _, err := parseHeaders(buf, 0, &hl, 2); err == nil {
		t.Fatalf("expected too-many-headers error")
	}
}

func TestHeaderListGetAndFirst(t *testing.T) {
	buf := []byte("Host: example.com\r\nContent-Length: 5\r\nContent-Length: 5\r\n\r\n")
	var hl HeaderList
	n, err := parseHeaders(buf, 0, &hl, 10)
	if err != nil {
		t.Fatalf("parseHeaders: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("n = %d, want %d", n, len(buf))
	}
	v, ok := hl.Get(buf, "host")
	if !ok || string(v) != "example.com" {
		t.Errorf("Get(host) = %q, %v", v, ok)
	}
	all := hl.All(HdrContentLength)
	if len(all) != 2 {
		t.Errorf("All(ContentLength) = %d entries, want 2", len(all))
	}
}

func TestGetHdrKindKnownAndUnknown(t *testing.T) {
	cases := map[string]HdrKind{
		"Content-Length":    HdrContentLength,
		"content-length":    HdrContentLength,
		"Transfer-Encoding": HdrTransferEncoding,
		"Connection":        HdrConnection,
		"Date":              HdrDate,
		"Host":              HdrHost,
		"Expect":            HdrExpect,
		"TE":                HdrTE,
		"X-Custom":          HdrOther,
	}
	for name, want := range cases {
		if got := getHdrKind([]byte(name)); got != want {
			t.Errorf("getHdrKind(%q) = %v, want %v", name, got, want)
		}
	}
}
