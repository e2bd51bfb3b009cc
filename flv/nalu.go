package flv

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// nalUnitForm identifies how a NAL-unit stream is framed on the wire.
type nalUnitForm int

const (
	formAnnexB4 nalUnitForm = iota // 00 00 00 01 start code
	formAnnexB3                    // 00 00 01 start code
	formAVCC                       // u32 length prefix
	formBare                       // no header, single NALU
)

// detectNALUForm implements the detection rule from §4.2: if u32 AVCC
// length prefixes and their NAL units cover the buffer exactly (for a
// single NALU, the first 4 bytes equal the remaining length), treat as
// AVCC; else detect a start code; else bare.
func detectNALUForm(b []byte) nalUnitForm {
	if len(b) >= 4 {
		rest := b
		for len(rest) >= 4 {
			n := binary.BigEndian.Uint32(rest[:4])
			if uint64(n) > uint64(len(rest)-4) {
				break
			}
			rest = rest[4+n:]
		}
		if len(rest) == 0 {
			return formAVCC
		}

		if b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 1 {
			return formAnnexB4
		}
	}

	if len(b) >= 3 && b[0] == 0 && b[1] == 0 && b[2] == 1 {
		return formAnnexB3
	}

	return formBare
}

// SplitNALUs normalizes a NAL-unit byte stream of unknown framing
// (AnnexB with 3- or 4-byte start codes, AVCC u32-length-prefixed, or
// a single bare NALU) into the ordered list of NAL units it contains.
func SplitNALUs(b []byte) ([][]byte, error) {
	if len(b) == 0 {
		return nil, &rtmperrs.CodecError{Reason: "empty NAL-unit stream"}
	}

	switch detectNALUForm(b) {
	case formAVCC:
		return splitAVCC(b)
	case formAnnexB4:
		return splitAnnexB(b, 4)
	case formAnnexB3:
		return splitAnnexB(b, 3)
	default:
		return [][]byte{b}, nil
	}
}

func splitAVCC(b []byte) ([][]byte, error) {
	var out [][]byte
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, &rtmperrs.CodecError{Reason: "truncated AVCC length prefix"}
		}
		n := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint32(len(b)) < n {
			return nil, &rtmperrs.CodecError{Reason: "truncated AVCC NAL unit"}
		}
		out = append(out, b[:n])
		b = b[n:]
	}
	return out, nil
}

func splitAnnexB(b []byte, startLen int) ([][]byte, error) {
	var out [][]byte
	pos := startLen
	start := pos
	zeros := 0

	for i := pos; i < len(b); i++ {
		switch b[i] {
		case 0:
			zeros++
		case 1:
			if zeros >= 2 {
				delimStart := i - zeros
				nalu := b[start:delimStart]
				if len(nalu) == 0 {
					return nil, &rtmperrs.CodecError{Reason: "empty NAL unit between start codes"}
				}
				out = append(out, nalu)
				start = i + 1
			}
			zeros = 0
		default:
			zeros = 0
		}
	}

	if start < len(b) {
		out = append(out, b[start:])
	}

	if len(out) == 0 {
		return nil, &rtmperrs.CodecError{Reason: "no NAL units found"}
	}

	return out, nil
}

// JoinAVCC re-prefixes each NAL unit with a 4-byte big-endian length,
// producing an AVCC-format NAL-unit byte stream.
func JoinAVCC(nalus [][]byte) []byte {
	size := 0
	for _, n := range nalus {
		size += 4 + len(n)
	}

	out := make([]byte, size)
	pos := 0
	for _, n := range nalus {
		binary.BigEndian.PutUint32(out[pos:], uint32(len(n)))
		pos += 4
		copy(out[pos:], n)
		pos += len(n)
	}
	return out
}

// JoinAnnexB re-prefixes each NAL unit with a 4-byte AnnexB start code.
func JoinAnnexB(nalus [][]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, 0x00, 0x00, 0x00, 0x01)
		out = append(out, n...)
	}
	return out
}
