package h1

import "testing"

func TestSpanBasic(t *testing.T) {
	buf := []byte("hello world")
	var s Span
	s.Set(0, 5)
	if got := string(s.Get(buf)); got != "hello" {
		t.Fatalf("Get() = %q, want %q", got, "hello")
	}
	if s.Empty() {
		t.Fatalf("Empty() = true, want false")
	}
	if s.End() != 5 {
		t.Fatalf("End() = %d, want 5", s.End())
	}
	s.Extend(11)
	if got := string(s.Get(buf)); got != "hello world" {
		t.Fatalf("Get() after Extend = %q", got)
	}
	if !s.OffsIn(3) || s.OffsIn(11) {
		t.Fatalf("OffsIn boundaries wrong")
	}
}

func TestSpanEmptyReset(t *testing.T) {
	var s Span
	if !s.Empty() {
		t.Fatalf("zero-value Span should be Empty")
	}
	s.Set(2, 2)
	if !s.Empty() {
		t.Fatalf("zero-length span should be Empty")
	}
	s.Set(2, 9)
	s.Reset()
	if !s.Empty() || s.Off != 0 {
		t.Fatalf("Reset did not clear span: %+v", s)
	}
}
