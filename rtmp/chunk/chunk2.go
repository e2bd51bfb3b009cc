package chunk

import (
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Chunk2 is a type 2 chunk. Neither the stream ID nor the message
// length is included; this chunk has the same stream ID and message
// length as the preceding chunk.
type Chunk2 struct {
	ChunkStreamID  uint32
	TimestampDelta uint32
	Body           []byte

	// Extended reports whether the wire encoding used the extended
	// timestamp field. Read sets it; Marshal derives it from
	// TimestampDelta and ignores any value set here.
	Extended bool
}

// Read reads the chunk, having already consumed its basic header.
func (c *Chunk2) Read(r io.Reader, chunkBodyLen uint32) error {
	delta, extended, err := readTimestampField(r)
	if err != nil {
		return err
	}
	c.TimestampDelta = delta
	c.Extended = extended

	c.Body = make([]byte, chunkBodyLen)
	if _, err := io.ReadFull(r, c.Body); err != nil {
		return &rtmperrs.IoTransportError{Op: "read type-2 chunk body", Err: err}
	}
	return nil
}

// Marshal writes the chunk, including its basic header.
func (c Chunk2) Marshal() ([]byte, error) {
	basic := BasicHeader{Fmt: 2, ChunkStreamID: c.ChunkStreamID}.Marshal()
	ts := marshalTimestampField(c.TimestampDelta)

	buf := make([]byte, 0, len(basic)+len(ts)+len(c.Body))
	buf = append(buf, basic...)
	buf = append(buf, ts...)
	buf = append(buf, c.Body...)
	return buf, nil
}
