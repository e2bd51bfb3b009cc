// Package transport implements C9: the byte-oriented connections an
// rtmp/session runs over — plain TCP, TCP+TLS, and HTTP-tunneled RTMP
// — behind one small interface, so the session engine never imports
// net or net/http directly.
package transport

import (
	"io"
)

// Transport is a byte-oriented, full-duplex connection carrying an
// RTMP byte stream. The TCP and TLS implementations block the caller
// when the socket's send buffer is full, giving the session's single
// write lock natural backpressure; the tunneled-HTTP implementation
// buffers outbound bytes in memory until its next poll and never
// blocks on Write.
type Transport interface {
	io.ReadWriteCloser

	// TotalBytesRead returns the cumulative number of bytes this
	// Transport has delivered to Read.
	TotalBytesRead() uint64

	// Relaxed reports whether the RTMP handshake's S2/C2 echo
	// validation should be skipped for this transport, per §4.7 (true
	// for the HTTP-tunneled variant; false for TCP and TCP+TLS).
	Relaxed() bool
}
