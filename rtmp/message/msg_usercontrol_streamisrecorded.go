package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgUserControlStreamIsRecorded notifies that a message stream is a
// recorded stream.
type MsgUserControlStreamIsRecorded struct {
	StreamID uint32
}

// Unmarshal implements Message.
func (m *MsgUserControlStreamIsRecorded) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 6 {
		return &rtmperrs.ProtocolError{Reason: "invalid StreamIsRecorded body size"}
	}
	m.StreamID = binary.BigEndian.Uint32(raw.Body[2:])
	return nil
}

// Marshal implements Message.
func (m MsgUserControlStreamIsRecorded) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body, uint16(UserControlStreamIsRecorded))
	binary.BigEndian.PutUint32(body[2:], m.StreamID)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeUserControl,
		Body:          body,
	}, nil
}
