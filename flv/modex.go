package flv

import "github.com/bluenviron/rtmplib/rtmperrs"

// ModExType identifies what an enhanced-tag ModEx entry carries.
type ModExType uint8

// Known ModEx entry types.
const (
	ModExTimestampOffsetNano ModExType = 0x01
)

// ModExEntry is one link of an enhanced audio/video tag's ModEx chain:
// an out-of-band extension carried before the packet type it modifies.
type ModExEntry struct {
	Type ModExType
	Data []byte
}

const modExContinue = 0x07 // PacketTypeModEx, reused as the chain continuation marker

func (e ModExEntry) encodedSize() int {
	n := len(e.Data)
	if n >= 0xFF {
		return 4 + n + 1
	}
	return 1 + n + 1
}

// encodeModExChain writes entries followed by the trailing packet type
// nibble that terminates the chain, per the ex-header layout: each
// entry is [size][data][(modExType<<4)|nextPacketType], and the chain
// continues for as long as nextPacketType reads back as ModEx.
func encodeModExChain(dst []byte, entries []ModExEntry, finalPacketType uint8) int {
	pos := 0
	for i, e := range entries {
		n := len(e.Data)
		if n >= 0xFF {
			dst[pos] = 0xFF
			PutU24(dst[pos+1:pos+4], uint32(n))
			pos += 4
		} else {
			dst[pos] = byte(n)
			pos++
		}
		copy(dst[pos:], e.Data)
		pos += n

		next := uint8(modExContinue)
		if i == len(entries)-1 {
			next = finalPacketType
		}
		dst[pos] = byte(e.Type)<<4 | next&0x0F
		pos++
	}
	return pos
}

func modExChainEncodedSize(entries []ModExEntry) int {
	n := 0
	for _, e := range entries {
		n += e.encodedSize()
	}
	return n
}

// decodeModExChain reads zero or more ModEx entries off r, stopping at
// the first trailer byte whose low nibble is not the ModEx marker, and
// returns that nibble as the real packet type carried underneath.
func decodeModExChain(r *bodyReader) ([]ModExEntry, uint8, error) {
	var entries []ModExEntry

	for {
		sizeByte, err := r.readByte()
		if err != nil {
			return nil, 0, err
		}

		size := uint32(sizeByte)
		if sizeByte == 0xFF {
			szb, err := r.readN(3)
			if err != nil {
				return nil, 0, err
			}
			size = ReadU24(szb)
		}

		data, err := r.readN(size)
		if err != nil {
			return nil, 0, err
		}

		trailer, err := r.readByte()
		if err != nil {
			return nil, 0, err
		}

		entries = append(entries, ModExEntry{Type: ModExType(trailer >> 4), Data: data})

		next := trailer & 0x0F
		if next != modExContinue {
			return entries, next, nil
		}

		if len(entries) > 16 {
			return nil, 0, &rtmperrs.ProtocolError{Reason: "ModEx chain too long"}
		}
	}
}
