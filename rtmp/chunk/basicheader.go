package chunk

import (
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// BasicHeader is the 1-3 byte chunk basic header: a 2-bit chunk type
// (fmt) plus the chunk stream ID, whose wire width depends on its
// value.
type BasicHeader struct {
	Fmt           uint8
	ChunkStreamID uint32
}

// Marshal encodes the basic header, picking the 1, 2 or 3-byte form
// based on ChunkStreamID's range.
func (h BasicHeader) Marshal() []byte {
	switch {
	case h.ChunkStreamID >= 2 && h.ChunkStreamID <= 63:
		return []byte{h.Fmt<<6 | byte(h.ChunkStreamID)}

	case h.ChunkStreamID >= 64 && h.ChunkStreamID <= 319:
		return []byte{h.Fmt << 6, byte(h.ChunkStreamID - 64)}

	default: // 64-65599, 3-byte form
		id := h.ChunkStreamID - 64
		return []byte{h.Fmt<<6 | 1, byte(id), byte(id >> 8)}
	}
}

// ReadBasicHeader decodes a basic header from r.
func ReadBasicHeader(r io.Reader) (BasicHeader, error) {
	var b0 [1]byte
	if _, err := io.ReadFull(r, b0[:]); err != nil {
		return BasicHeader{}, &rtmperrs.IoTransportError{Op: "read chunk basic header", Err: err}
	}

	fmtByte := b0[0] >> 6
	csidField := b0[0] & 0x3F

	switch csidField {
	case 0:
		var b1 [1]byte
		if _, err := io.ReadFull(r, b1[:]); err != nil {
			return BasicHeader{}, &rtmperrs.IoTransportError{Op: "read chunk basic header (2-byte form)", Err: err}
		}
		return BasicHeader{Fmt: fmtByte, ChunkStreamID: uint32(b1[0]) + 64}, nil

	case 1:
		var b1 [2]byte
		if _, err := io.ReadFull(r, b1[:]); err != nil {
			return BasicHeader{}, &rtmperrs.IoTransportError{Op: "read chunk basic header (3-byte form)", Err: err}
		}
		return BasicHeader{Fmt: fmtByte, ChunkStreamID: uint32(b1[0]) + uint32(b1[1])*256 + 64}, nil

	default:
		return BasicHeader{Fmt: fmtByte, ChunkStreamID: uint32(csidField)}, nil
	}
}
