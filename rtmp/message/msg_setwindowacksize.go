package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgSetWindowAckSize is a Window Acknowledgement Size message (type 5).
type MsgSetWindowAckSize struct {
	Value uint32
}

// Unmarshal implements Message.
func (m *MsgSetWindowAckSize) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 4 {
		return &rtmperrs.ProtocolError{Reason: "invalid WindowAckSize body size"}
	}

	m.Value = binary.BigEndian.Uint32(raw.Body)
	return nil
}

// Marshal implements Message.
func (m MsgSetWindowAckSize) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, m.Value)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeSetWindowAckSize,
		Body:          body,
	}, nil
}
