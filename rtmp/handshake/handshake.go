// Package handshake implements the plain RTMP handshake: the C0/C1/C2
// versus S0/S1/S2 byte exchange that precedes chunk-stream traffic.
// Encrypted (RTMPE) and Diffie-Hellman key-exchange handshakes are out
// of scope; only the plain three-packet exchange is implemented.
package handshake

import (
	"bytes"
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// DoClient performs a client-side handshake over rw. strict controls
// whether the S2 echo is validated against the bytes sent in C1: set
// it for a directly-held TCP (or TLS) connection, and clear it when rw
// sits atop an HTTP-tunneled relay, which may legitimately alter the
// echoed bytes in transit.
//
// It returns the peer's random bytes from S1, which upper layers may
// use as a session nonce.
func DoClient(rw io.ReadWriter, strict bool) ([]byte, error) {
	c0 := C0S0{Version: rtmpVersion}
	if err := c0.Write(rw); err != nil {
		return nil, err
	}

	c1 := C1S1{Timestamp: 0}
	if err := c1.Write(rw); err != nil {
		return nil, err
	}

	var s0 C0S0
	if err := s0.Read(rw); err != nil {
		return nil, err
	}
	if s0.Version != rtmpVersion {
		return nil, &rtmperrs.HandshakeFailureError{Reason: "server replied with an unsupported version"}
	}

	var s1 C1S1
	if err := s1.Read(rw); err != nil {
		return nil, err
	}

	c2 := C2S2{
		Timestamp:     0,
		PeerTimestamp: s1.Timestamp,
		Random:        s1.Random,
	}
	if err := c2.Write(rw); err != nil {
		return nil, err
	}

	var s2 C2S2
	if err := s2.Read(rw); err != nil {
		return nil, err
	}

	if strict {
		if s2.PeerTimestamp != c1.Timestamp || !bytes.Equal(s2.Random, c1.Random) {
			return nil, &rtmperrs.HandshakeFailureError{Reason: "S2 does not echo C1"}
		}
	}

	return s1.Random, nil
}

// DoServer performs a server-side handshake over rw, mirroring
// DoClient. It returns the peer's random bytes from C1.
func DoServer(rw io.ReadWriter, strict bool) ([]byte, error) {
	var c0 C0S0
	if err := c0.Read(rw); err != nil {
		return nil, err
	}
	if c0.Version != rtmpVersion {
		return nil, &rtmperrs.HandshakeFailureError{Reason: "client requested an unsupported version"}
	}

	s0 := C0S0{Version: rtmpVersion}
	if err := s0.Write(rw); err != nil {
		return nil, err
	}

	var c1 C1S1
	if err := c1.Read(rw); err != nil {
		return nil, err
	}

	s1 := C1S1{Timestamp: 0}
	if err := s1.Write(rw); err != nil {
		return nil, err
	}

	s2 := C2S2{
		Timestamp:     0,
		PeerTimestamp: c1.Timestamp,
		Random:        c1.Random,
	}
	if err := s2.Write(rw); err != nil {
		return nil, err
	}

	var c2 C2S2
	if err := c2.Read(rw); err != nil {
		return nil, err
	}

	if strict {
		if c2.PeerTimestamp != s1.Timestamp || !bytes.Equal(c2.Random, s1.Random) {
			return nil, &rtmperrs.HandshakeFailureError{Reason: "C2 does not echo S1"}
		}
	}

	return c1.Random, nil
}
