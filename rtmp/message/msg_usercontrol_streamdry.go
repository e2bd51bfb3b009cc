package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgUserControlStreamDry notifies that a message stream has no more
// buffered data to deliver right now.
type MsgUserControlStreamDry struct {
	StreamID uint32
}

// Unmarshal implements Message.
func (m *MsgUserControlStreamDry) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 6 {
		return &rtmperrs.ProtocolError{Reason: "invalid StreamDry body size"}
	}
	m.StreamID = binary.BigEndian.Uint32(raw.Body[2:])
	return nil
}

// Marshal implements Message.
func (m MsgUserControlStreamDry) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body, uint16(UserControlStreamDry))
	binary.BigEndian.PutUint32(body[2:], m.StreamID)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeUserControl,
		Body:          body,
	}, nil
}
