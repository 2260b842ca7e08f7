package h1

import "testing"

func TestGetMethodNo(t *testing.T) {
	cases := map[string]Method{
		"GET":     MGet,
		"HEAD":    MHead,
		"POST":    MPost,
		"PUT":     MPut,
		"DELETE":  MDelete,
		"CONNECT": MConnect,
		"OPTIONS": MOptions,
		"TRACE":   MTrace,
		"PATCH":   MPatch,
		"FOOBAR":  MOther,
	}
	for name, want := range cases {
		if got := getMethodNo([]byte(name)); got != want {
			t.Errorf("getMethodNo(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestMethodNoBody(t *testing.T) {
	if !MGet.NoBody() || !MHead.NoBody() {
		t.Errorf("GET/HEAD should report NoBody")
	}
	if MPost.NoBody() || MPut.NoBody() {
		t.Errorf("POST/PUT should not report NoBody")
	}
}

func TestMethodLookupBucketSize(t *testing.T) {
	var max int
	for _, bucket := range methodLookup {
		if len(bucket) > max {
			max = len(bucket)
		}
	}
	if max > 2 {
		t.Errorf("methodLookup: max bucket size %d, try increasing methodBitsLen/methodBitsFChar", max)
	}
}
