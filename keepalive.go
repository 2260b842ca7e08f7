package h1

import "github.com/intuitivelabs/bytescase"

// httpVersion is the closed set of versions this engine speaks (§4.2:
// "all others -> Malformed(Version)").
type httpVersion uint8

const (
	httpVerUnknown httpVersion = iota
	httpVer10
	httpVer11
)

// versionOf resolves the wire version text captured in mh.FL.Version.
func versionOf(mh *MessageHead) httpVersion {
	return parseVersion(mh.FL.Version.Get(mh.Buf))
}

func parseVersion(v []byte) httpVersion {
	switch {
	case bytescase.CmpEq(v, []byte("HTTP/1.1")):
		return httpVer11
	case bytescase.CmpEq(v, []byte("HTTP/1.0")):
		return httpVer10
	}
	return httpVerUnknown
}

// shouldKeepAlive implements §4.7's keep-alive rule: HTTP/1.1 unless
// Connection: close; HTTP/1.0 only if Connection: keep-alive.
func shouldKeepAlive(v httpVersion, hl *HeaderList, buf []byte) bool {
	conn := hl.First(HdrConnection)
	switch v {
	case httpVer11:
		if conn == nil {
			return true
		}
		return !connectionHas(conn.Value.Get(buf), "close")
	case httpVer10:
		if conn == nil {
			return false
		}
		return connectionHas(conn.Value.Get(buf), "keep-alive")
	}
	return false
}

// connectionHas reports whether the comma-separated Connection header
// value contains token, matched case-insensitively.
func connectionHas(value []byte, token string) bool {
	i := 0
	for i < len(value) {
		for i < len(value) && (value[i] == ' ' || value[i] == '\t' || value[i] == ',') {
			i++
		}
		start := i
		i = skipToken(value, i)
		if i == start {
			break
		}
		if bytescase.CmpEq(value[start:i], []byte(token)) {
			return true
		}
	}
	return false
}
