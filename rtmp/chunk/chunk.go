// Package chunk implements RTMP chunk-stream framing: the basic
// header (variable-width chunk stream ID), the four message-header
// forms, and the extended-timestamp escape.
package chunk

import (
	"encoding/binary"
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// ExtendedTimestampMarker is the sentinel 24-bit timestamp/delta value
// that means "the real value is in the 4-byte extended timestamp field
// that follows this header".
const ExtendedTimestampMarker = 0xFFFFFF

const extendedTimestampMarker = ExtendedTimestampMarker

// Chunk is implemented by Chunk0, Chunk1 and Chunk2. Chunk3 is not
// part of this interface: its Read additionally needs to know whether
// the chunk stream's last full header carried an extended timestamp.
type Chunk interface {
	Read(r io.Reader, chunkMaxBodyLen uint32) error
	Marshal() ([]byte, error)
}

func readU24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func putU24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// readTimestampField reads a chunk's 3-byte timestamp/delta field and,
// if it carries the extended-timestamp marker, the 4-byte extended
// field that follows it.
func readTimestampField(r io.Reader) (value uint32, extended bool, err error) {
	var b [3]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return 0, false, &rtmperrs.IoTransportError{Op: "read chunk timestamp field", Err: err}
	}
	value = readU24(b[:])
	if value != extendedTimestampMarker {
		return value, false, nil
	}

	var ext [4]byte
	if _, err = io.ReadFull(r, ext[:]); err != nil {
		return 0, false, &rtmperrs.IoTransportError{Op: "read extended timestamp field", Err: err}
	}
	return binary.BigEndian.Uint32(ext[:]), true, nil
}

// marshalTimestampField encodes a chunk's 3-byte timestamp/delta field,
// appending the 4-byte extended field when the value doesn't fit.
func marshalTimestampField(value uint32) []byte {
	if value < extendedTimestampMarker {
		b := make([]byte, 3)
		putU24(b, value)
		return b
	}

	b := make([]byte, 7)
	putU24(b, extendedTimestampMarker)
	binary.BigEndian.PutUint32(b[3:], value)
	return b
}

func beUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func beBytes32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func boundedBodyLen(declared, chunkMaxBodyLen uint32) uint32 {
	if declared > chunkMaxBodyLen {
		return chunkMaxBodyLen
	}
	return declared
}
