package chunk

import (
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Chunk1 is a type 1 chunk. The message stream ID is not included;
// this chunk takes the same stream ID as the preceding chunk on this
// chunk stream. Streams with variable-sized messages SHOULD use this
// format for the first chunk of each new message after the first.
type Chunk1 struct {
	ChunkStreamID  uint32
	TimestampDelta uint32
	Type           MessageType
	BodyLen        uint32
	Body           []byte

	// Extended reports whether the wire encoding used the extended
	// timestamp field. Read sets it; Marshal derives it from
	// TimestampDelta and ignores any value set here.
	Extended bool
}

// Read reads the chunk, having already consumed its basic header.
func (c *Chunk1) Read(r io.Reader, chunkMaxBodyLen uint32) error {
	var header [7]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return &rtmperrs.IoTransportError{Op: "read type-1 chunk message header", Err: err}
	}

	rawDelta := readU24(header[0:3])
	c.BodyLen = readU24(header[3:6])
	c.Type = MessageType(header[6])

	if rawDelta == extendedTimestampMarker {
		var ext [4]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return &rtmperrs.IoTransportError{Op: "read extended timestamp field", Err: err}
		}
		c.TimestampDelta = beUint32(ext[:])
		c.Extended = true
	} else {
		c.TimestampDelta = rawDelta
		c.Extended = false
	}

	bodyLen := boundedBodyLen(c.BodyLen, chunkMaxBodyLen)
	c.Body = make([]byte, bodyLen)
	if _, err := io.ReadFull(r, c.Body); err != nil {
		return &rtmperrs.IoTransportError{Op: "read type-1 chunk body", Err: err}
	}
	return nil
}

// Marshal writes the chunk, including its basic header.
func (c Chunk1) Marshal() ([]byte, error) {
	basic := BasicHeader{Fmt: 1, ChunkStreamID: c.ChunkStreamID}.Marshal()

	header := make([]byte, 7)
	if c.TimestampDelta < extendedTimestampMarker {
		putU24(header[0:3], c.TimestampDelta)
	} else {
		putU24(header[0:3], extendedTimestampMarker)
	}
	putU24(header[3:6], c.BodyLen)
	header[6] = byte(c.Type)

	buf := make([]byte, 0, len(basic)+len(header)+4+len(c.Body))
	buf = append(buf, basic...)
	buf = append(buf, header...)

	if c.TimestampDelta >= extendedTimestampMarker {
		buf = append(buf, beBytes32(c.TimestampDelta)...)
	}

	buf = append(buf, c.Body...)
	return buf, nil
}
