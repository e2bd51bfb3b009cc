package flv

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

var flvSignature = [3]byte{'F', 'L', 'V'}

// Header is the 9-byte FLV file/stream header.
type Header struct {
	Version    uint8
	HasAudio   bool
	HasVideo   bool
	DataOffset uint32 // always 9 for standard streams
}

// Marshal encodes the header into its fixed 9-byte wire form.
func (h Header) Marshal() []byte {
	buf := make([]byte, 9)
	copy(buf[0:3], flvSignature[:])
	buf[3] = h.Version

	var flags byte
	if h.HasAudio {
		flags |= 1 << 0
	}
	if h.HasVideo {
		flags |= 1 << 2
	}
	buf[4] = flags

	offset := h.DataOffset
	if offset == 0 {
		offset = 9
	}
	binary.BigEndian.PutUint32(buf[5:9], offset)

	return buf
}

// UnmarshalHeader decodes a 9-byte FLV header.
func UnmarshalHeader(buf []byte) (Header, error) {
	if len(buf) < 9 {
		return Header{}, &rtmperrs.FramingError{Reason: "truncated FLV header"}
	}

	if buf[0] != flvSignature[0] || buf[1] != flvSignature[1] || buf[2] != flvSignature[2] {
		return Header{}, &rtmperrs.ProtocolError{Reason: "invalid FLV signature"}
	}

	flags := buf[4]

	return Header{
		Version:    buf[3],
		HasAudio:   flags&(1<<0) != 0,
		HasVideo:   flags&(1<<2) != 0,
		DataOffset: binary.BigEndian.Uint32(buf[5:9]),
	}, nil
}
