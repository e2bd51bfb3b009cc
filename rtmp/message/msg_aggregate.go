package message

import (
	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
)

// MsgAggregate is an Aggregate message (type 22): a sequence of FLV
// tags with their own 11-byte headers and 4-byte previous-tag-size
// trailers, bundled into one RTMP message. This type only carries the
// opaque bytes across the chunk/message boundary; it does not demux the
// inner tags, and the payload has no FLV file header, so flv/demux's New
// does not accept it as is.
type MsgAggregate struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Timestamp       uint32
	Payload         []byte
}

// Unmarshal implements Message.
func (m *MsgAggregate) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID
	m.Timestamp = uint32(raw.Timestamp.Milliseconds())
	m.Payload = raw.Body
	return nil
}

// Marshal implements Message.
func (m MsgAggregate) Marshal() (*rawmessage.Message, error) {
	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Timestamp:       msTimestamp(m.Timestamp),
		Type:            chunk.MessageTypeAggregate,
		MessageStreamID: m.MessageStreamID,
		Body:            m.Payload,
	}, nil
}
