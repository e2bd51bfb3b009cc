package handshake

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

const c1s1Size = 1536

// C1S1 is the 1536-byte C1 (client) or S1 (server) packet of the
// plain handshake: a timestamp, a reserved zero field, and 1528 bytes
// of random data.
type C1S1 struct {
	Timestamp uint32
	Random    []byte
}

// Read reads a C1S1.
func (c *C1S1) Read(r io.Reader) error {
	buf := make([]byte, c1s1Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return &rtmperrs.IoTransportError{Op: "read C1/S1", Err: err}
	}

	c.Timestamp = binary.BigEndian.Uint32(buf[0:4])
	c.Random = append([]byte(nil), buf[8:]...)
	return nil
}

// Write writes a C1S1. If Random is nil, it is filled with random
// bytes before writing.
func (c *C1S1) Write(w io.Writer) error {
	buf := make([]byte, c1s1Size)
	binary.BigEndian.PutUint32(buf[0:4], c.Timestamp)

	if c.Random == nil {
		if _, err := rand.Read(buf[8:]); err != nil {
			return &rtmperrs.IoTransportError{Op: "generate C1/S1 random", Err: err}
		}
		c.Random = append([]byte(nil), buf[8:]...)
	} else {
		copy(buf[8:], c.Random)
	}

	if _, err := w.Write(buf); err != nil {
		return &rtmperrs.IoTransportError{Op: "write C1/S1", Err: err}
	}
	return nil
}
