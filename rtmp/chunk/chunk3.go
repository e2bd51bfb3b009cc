package chunk

import (
	"io"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Chunk3 is a type 3 chunk. It has no message header: stream ID,
// message length and timestamp delta take their values from the
// preceding chunk on this chunk stream. When a single message is
// split into chunks, every chunk after the first SHOULD use this
// type.
//
// Per the RTMP 1.1 extended-timestamp errata, if the chunk stream's
// most recent Type 0/1/2 header carried an extended timestamp, every
// subsequent Type 3 chunk repeats that same 4-byte extended field
// even though it otherwise has no header of its own. Callers track
// that per-chunk-stream state and pass it in as hasExtendedTimestamp.
type Chunk3 struct {
	ChunkStreamID     uint32
	ExtendedTimestamp uint32 // valid only when HasExtendedTimestamp
	HasExtendedTimestamp bool
	Body              []byte
}

// Read reads the chunk, having already consumed its basic header.
// hasExtendedTimestamp must reflect whether the chunk stream's last
// full header carried an extended timestamp field.
func (c *Chunk3) Read(r io.Reader, chunkBodyLen uint32, hasExtendedTimestamp bool) error {
	c.HasExtendedTimestamp = hasExtendedTimestamp
	if hasExtendedTimestamp {
		var ext [4]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return &rtmperrs.IoTransportError{Op: "read type-3 chunk repeated extended timestamp", Err: err}
		}
		c.ExtendedTimestamp = beUint32(ext[:])
	}

	c.Body = make([]byte, chunkBodyLen)
	if _, err := io.ReadFull(r, c.Body); err != nil {
		return &rtmperrs.IoTransportError{Op: "read type-3 chunk body", Err: err}
	}
	return nil
}

// Marshal writes the chunk, including its basic header.
func (c Chunk3) Marshal() ([]byte, error) {
	basic := BasicHeader{Fmt: 3, ChunkStreamID: c.ChunkStreamID}.Marshal()

	buf := make([]byte, 0, len(basic)+4+len(c.Body))
	buf = append(buf, basic...)
	if c.HasExtendedTimestamp {
		buf = append(buf, beBytes32(c.ExtendedTimestamp)...)
	}
	buf = append(buf, c.Body...)
	return buf, nil
}
