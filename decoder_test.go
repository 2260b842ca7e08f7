package h1

import "testing"

func TestDecoderEmpty(t *testing.T) {
	d := NewEmptyDecoder()
	if !d.IsEOF() {
		t.Errorf("NewEmptyDecoder should be EOF immediately")
	}
	n, consumed, err := d.Decode([]byte("abc"), make([]byte, 8))
	if n != 0 || consumed != 0 || err != nil {
		t.Errorf("Decode on empty decoder = %d, %d, %v", n, consumed, err)
	}
}

func TestDecoderLength(t *testing.T) {
	d := NewLengthDecoder(5)
	dst := make([]byte, 3)
	n, consumed, err := d.Decode([]byte("hello world"), dst)
	if err != nil || n != 3 || consumed != 3 {
		t.Fatalf("first Decode = %d, %d, %v", n, consumed, err)
	}
	if d.IsEOF() {
		t.Fatalf("should not be EOF after 3/5 bytes")
	}
	dst2 := make([]byte, 8)
	n, consumed, err = d.Decode([]byte("lo world"), dst2)
	if err != nil || n != 2 || consumed != 2 {
		t.Fatalf("second Decode = %d, %d, %v", n, consumed, err)
	}
	if !d.IsEOF() {
		t.Fatalf("should be EOF after 5/5 bytes")
	}
}

func TestDecoderCloseDelimited(t *testing.T) {
	d := NewCloseDelimitedDecoder()
	dst := make([]byte, 32)
	n, consumed, err := d.Decode([]byte("whatever remains"), dst)
	if err != nil || n != len("whatever remains") || consumed != n {
		t.Fatalf("Decode = %d, %d, %v", n, consumed, err)
	}
	if d.IsEOF() {
		t.Fatalf("should not be EOF until NoteEOF")
	}
	d.NoteEOF()
	if !d.IsEOF() {
		t.Fatalf("should be EOF after NoteEOF")
	}
}

func TestDecoderChunked(t *testing.T) {
	d := NewChunkedDecoder(10)
	src := []byte("4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n")
	var got []byte
	for !d.IsEOF() {
		dst := make([]byte, 4)
		n, consumed, err := d.Decode(src, dst)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		got = append(got, dst[:n]...)
		src = src[consumed:]
		if consumed == 0 && n == 0 && len(src) == 0 {
			break
		}
	}
	if string(got) != "Wikipedia" {
		t.Errorf("decoded = %q, want %q", got, "Wikipedia")
	}
}

func TestDecoderChunkedIncomplete(t *testing.T) {
	d := NewChunkedDecoder(10)
	src := []byte("4\r\nWi")
	dst := make([]byte, 8)
	n, consumed, err := d.Decode(src, dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != 2 || consumed != len(src) {
		t.Errorf("Decode = %d, %d, want 2, %d", n, consumed, len(src))
	}
	if d.IsEOF() {
		t.Errorf("should not be EOF mid-chunk")
	}
}
