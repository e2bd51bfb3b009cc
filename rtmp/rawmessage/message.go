// Package rawmessage reassembles RTMP chunks back into whole messages
// (and splits whole messages back into chunks), tracking per-chunk-
// stream state: last timestamp, last message type, last body length,
// and whether the stream's last full header used an extended
// timestamp.
package rawmessage

import (
	"time"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
)

// Message is a reassembled RTMP message: the payload of one or more
// chunks sharing a chunk stream ID.
type Message struct {
	ChunkStreamID   uint32
	Timestamp       time.Duration
	Type            chunk.MessageType
	MessageStreamID uint32
	Body            []byte
}
