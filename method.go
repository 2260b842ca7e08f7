package h1

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// Method is a closed enumeration of request methods, with MOther as the
// fallback for any token the engine does not special-case. The wire text
// is never lost even for MOther: FirstLine.Method always holds the raw
// Span, so callers needing the literal extension token just read it from
// the original buffer.
type Method uint8

const (
	MUndef Method = iota
	MGet
	MHead
	MPost
	MPut
	MDelete
	MConnect
	MOptions
	MTrace
	MPatch
	MOther // must be last: fallback for any other method token
)

// method2Name translates between a numeric Method and its ASCII name.
var method2Name = [MOther + 1][]byte{
	MUndef:   []byte(""),
	MGet:     []byte("GET"),
	MHead:    []byte("HEAD"),
	MPost:    []byte("POST"),
	MPut:     []byte("PUT"),
	MDelete:  []byte("DELETE"),
	MConnect: []byte("CONNECT"),
	MOptions: []byte("OPTIONS"),
	MTrace:   []byte("TRACE"),
	MPatch:   []byte("PATCH"),
	MOther:   []byte("OTHER"),
}

// Name returns the canonical ASCII method name.
func (m Method) Name() []byte {
	if m > MOther {
		return method2Name[MUndef]
	}
	return method2Name[m]
}

// String implements fmt.Stringer.
func (m Method) String() string {
	return string(m.Name())
}

// NoBody reports whether requests with this method never carry a body
// framing the engine should apply Content-Length/Transfer-Encoding to
// (GET and HEAD: see MessageCodec's decoder selection, §4.5).
func (m Method) NoBody() bool {
	return m == MGet || m == MHead
}

// getMethodNo converts an ASCII method token to its numeric Method,
// falling back to MOther for anything unrecognized.
func getMethodNo(tok []byte) Method {
	i := hashMethodName(tok)
	for _, m := range methodLookup[i] {
		if bytes.Equal(tok, m.name) {
			return m.method
		}
	}
	return MOther
}

// magic values: after adding/removing methods re-check max bucket size <= 2
// (HEAD/POST and GET/OPTIONS share buckets today; see
// TestMethodLookupBucketSize)
const (
	methodBitsLen   uint = 2
	methodBitsFChar uint = 3
)

type methodEntry struct {
	name   []byte
	method Method
}

var methodLookup [1 << (methodBitsLen + methodBitsFChar)][]methodEntry

func hashMethodName(n []byte) int {
	const (
		mC = (1 << methodBitsFChar) - 1
		mL = (1 << methodBitsLen) - 1
	)
	return (int(bytescase.ByteToLower(n[0])) & mC) |
		((len(n) & mL) << methodBitsFChar)
}

func init() {
	for i := MUndef + 1; i < MOther; i++ {
		h := hashMethodName(method2Name[i])
		methodLookup[h] = append(methodLookup[h], methodEntry{method2Name[i], i})
	}
}
