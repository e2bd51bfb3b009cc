package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgUserControlPingRequest is sent by the server to measure
// round-trip liveness; the peer must reply with a MsgUserControlPingResponse
// carrying the same ServerTime.
type MsgUserControlPingRequest struct {
	ServerTime uint32
}

// Unmarshal implements Message.
func (m *MsgUserControlPingRequest) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 6 {
		return &rtmperrs.ProtocolError{Reason: "invalid PingRequest body size"}
	}
	m.ServerTime = binary.BigEndian.Uint32(raw.Body[2:])
	return nil
}

// Marshal implements Message.
func (m MsgUserControlPingRequest) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body, uint16(UserControlPingRequest))
	binary.BigEndian.PutUint32(body[2:], m.ServerTime)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeUserControl,
		Body:          body,
	}, nil
}
