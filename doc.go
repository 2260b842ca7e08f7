// Package h1 implements a non-blocking HTTP/1.x per-connection state
// machine: incremental head parsing, Content-Length/chunked/close-
// delimited body framing, and a reactor-driven read/write transition
// table, for use as both server and client.
package h1
