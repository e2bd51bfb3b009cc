package chunk

import (
	"encoding/binary"
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Chunk0 is a type 0 chunk. It MUST be used at the start of a chunk
// stream, and whenever the stream timestamp goes backward (e.g.
// because of a backward seek).
type Chunk0 struct {
	ChunkStreamID   uint32
	Timestamp       uint32
	Type            MessageType
	MessageStreamID uint32
	BodyLen         uint32
	Body            []byte

	// Extended reports whether the wire encoding used the extended
	// timestamp field. Read sets it; Marshal derives it from Timestamp
	// and ignores any value set here.
	Extended bool
}

// Read reads the chunk, having already consumed its basic header.
func (c *Chunk0) Read(r io.Reader, chunkMaxBodyLen uint32) error {
	var header [11]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return &rtmperrs.IoTransportError{Op: "read type-0 chunk message header", Err: err}
	}

	rawTimestamp := readU24(header[0:3])
	c.BodyLen = readU24(header[3:6])
	c.Type = MessageType(header[6])
	c.MessageStreamID = binary.BigEndian.Uint32(header[7:11])

	if rawTimestamp == extendedTimestampMarker {
		var ext [4]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return &rtmperrs.IoTransportError{Op: "read extended timestamp field", Err: err}
		}
		c.Timestamp = binary.BigEndian.Uint32(ext[:])
		c.Extended = true
	} else {
		c.Timestamp = rawTimestamp
		c.Extended = false
	}

	bodyLen := boundedBodyLen(c.BodyLen, chunkMaxBodyLen)
	c.Body = make([]byte, bodyLen)
	if _, err := io.ReadFull(r, c.Body); err != nil {
		return &rtmperrs.IoTransportError{Op: "read type-0 chunk body", Err: err}
	}
	return nil
}

// Marshal writes the chunk, including its basic header.
func (c Chunk0) Marshal() ([]byte, error) {
	basic := BasicHeader{Fmt: 0, ChunkStreamID: c.ChunkStreamID}.Marshal()

	header := make([]byte, 11)
	if c.Timestamp < extendedTimestampMarker {
		putU24(header[0:3], c.Timestamp)
	} else {
		putU24(header[0:3], extendedTimestampMarker)
	}
	putU24(header[3:6], c.BodyLen)
	header[6] = byte(c.Type)
	binary.BigEndian.PutUint32(header[7:11], c.MessageStreamID)

	buf := make([]byte, 0, len(basic)+len(header)+4+len(c.Body))
	buf = append(buf, basic...)
	buf = append(buf, header...)

	if c.Timestamp >= extendedTimestampMarker {
		ext := make([]byte, 4)
		binary.BigEndian.PutUint32(ext, c.Timestamp)
		buf = append(buf, ext...)
	}

	buf = append(buf, c.Body...)
	return buf, nil
}
