package handshake

import (
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// rtmpVersion is the only version value this package speaks.
const rtmpVersion = 0x03

// C0S0 is the single-byte C0 (client) or S0 (server) packet: the
// protocol version.
type C0S0 struct {
	Version byte
}

// Read reads a C0S0.
func (c *C0S0) Read(r io.Reader) error {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return &rtmperrs.IoTransportError{Op: "read C0/S0", Err: err}
	}
	c.Version = buf[0]
	return nil
}

// Write writes a C0S0.
func (c C0S0) Write(w io.Writer) error {
	_, err := w.Write([]byte{c.Version})
	if err != nil {
		return &rtmperrs.IoTransportError{Op: "write C0/S0", Err: err}
	}
	return nil
}
