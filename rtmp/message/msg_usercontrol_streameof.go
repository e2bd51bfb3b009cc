package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgUserControlStreamEOF notifies that playback of a message stream
// has reached its end.
type MsgUserControlStreamEOF struct {
	StreamID uint32
}

// Unmarshal implements Message.
func (m *MsgUserControlStreamEOF) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 6 {
		return &rtmperrs.ProtocolError{Reason: "invalid StreamEOF body size"}
	}
	m.StreamID = binary.BigEndian.Uint32(raw.Body[2:])
	return nil
}

// Marshal implements Message.
func (m MsgUserControlStreamEOF) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body, uint16(UserControlStreamEOF))
	binary.BigEndian.PutUint32(body[2:], m.StreamID)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeUserControl,
		Body:          body,
	}, nil
}
