// Package message parses RTMP chunk-stream payloads (as reassembled by
// rtmp/rawmessage) into the typed message set from §3: control
// messages, user-control events, AMF0/AMF3 command and data messages,
// and audio/video messages whose bodies are FLV tag bodies decoded via
// the flv package.
package message

import (
	"time"

	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
)

// ControlChunkStreamID is the chunk stream ID conventionally used for
// protocol-control messages (set chunk size, window ack, ping, ...).
const ControlChunkStreamID = 2

// Message is implemented by every typed message in this package.
type Message interface {
	Unmarshal(*rawmessage.Message) error
	Marshal() (*rawmessage.Message, error)
}

// msTimestamp converts a millisecond timestamp to the time.Duration
// rawmessage.Message carries it as.
func msTimestamp(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
