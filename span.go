package h1

// Span is an (offset, length) window into a byte slice, used throughout
// the incremental parsers so partially-parsed values can be resumed
// without copying bytes.
//
// Unlike the teacher's PField (which packs offsets into uint16, since SIP
// messages are small), Span uses plain ints: MaxBufferSize defaults to
// 8192 + 4096*100, well past what fits in 16 bits.
type Span struct {
	Off int
	Len int
}

// Set sets a Span to [start, end).
func (s *Span) Set(start, end int) {
	if end < start {
		panic("h1: invalid span range")
	}
	s.Off = start
	s.Len = end - start
}

// Reset sets a Span to the empty value.
func (s *Span) Reset() {
	s.Off = 0
	s.Len = 0
}

// Extend grows a Span's end to newEnd, keeping Off fixed.
func (s *Span) Extend(newEnd int) {
	if newEnd < s.Off {
		panic("h1: invalid span end")
	}
	s.Len = newEnd - s.Off
}

// Empty returns true if the Span has zero length.
func (s Span) Empty() bool { return s.Len == 0 }

// End returns the offset directly after the Span.
func (s Span) End() int { return s.Off + s.Len }

// Get returns the byte slice inside buf corresponding to the Span.
func (s Span) Get(buf []byte) []byte { return buf[s.Off : s.Off+s.Len] }

// OffsIn returns true if offs falls inside the Span.
func (s Span) OffsIn(offs int) bool {
	return offs >= s.Off && offs < s.End()
}
