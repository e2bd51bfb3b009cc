package handshake

import (
	"encoding/binary"
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// C2S2 is the 1536-byte C2 (client) or S2 (server) packet: it echoes
// the peer's timestamp and random data back, stamped with a local
// timestamp.
type C2S2 struct {
	Timestamp      uint32
	PeerTimestamp  uint32
	Random         []byte
}

// Read reads a C2S2.
func (c *C2S2) Read(r io.Reader) error {
	buf := make([]byte, c1s1Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return &rtmperrs.IoTransportError{Op: "read C2/S2", Err: err}
	}

	c.PeerTimestamp = binary.BigEndian.Uint32(buf[0:4])
	c.Timestamp = binary.BigEndian.Uint32(buf[4:8])
	c.Random = append([]byte(nil), buf[8:]...)
	return nil
}

// Write writes a C2S2.
func (c C2S2) Write(w io.Writer) error {
	buf := make([]byte, c1s1Size)
	binary.BigEndian.PutUint32(buf[0:4], c.PeerTimestamp)
	binary.BigEndian.PutUint32(buf[4:8], c.Timestamp)
	copy(buf[8:], c.Random)

	if _, err := w.Write(buf); err != nil {
		return &rtmperrs.IoTransportError{Op: "write C2/S2", Err: err}
	}
	return nil
}
