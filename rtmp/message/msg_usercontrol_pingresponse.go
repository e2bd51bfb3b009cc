package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgUserControlPingResponse echoes a MsgUserControlPingRequest's
// ServerTime back to the sender.
type MsgUserControlPingResponse struct {
	ServerTime uint32
}

// Unmarshal implements Message.
func (m *MsgUserControlPingResponse) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 6 {
		return &rtmperrs.ProtocolError{Reason: "invalid PingResponse body size"}
	}
	m.ServerTime = binary.BigEndian.Uint32(raw.Body[2:])
	return nil
}

// Marshal implements Message.
func (m MsgUserControlPingResponse) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body, uint16(UserControlPingResponse))
	binary.BigEndian.PutUint32(body[2:], m.ServerTime)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeUserControl,
		Body:          body,
	}, nil
}
