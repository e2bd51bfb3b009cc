package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgUserControlSetBufferLength asks the peer to buffer at least
// BufferLengthMs milliseconds of a stream before playing it.
type MsgUserControlSetBufferLength struct {
	StreamID       uint32
	BufferLengthMs uint32
}

// Unmarshal implements Message.
func (m *MsgUserControlSetBufferLength) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 10 {
		return &rtmperrs.ProtocolError{Reason: "invalid SetBufferLength body size"}
	}
	m.StreamID = binary.BigEndian.Uint32(raw.Body[2:6])
	m.BufferLengthMs = binary.BigEndian.Uint32(raw.Body[6:10])
	return nil
}

// Marshal implements Message.
func (m MsgUserControlSetBufferLength) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 10)
	binary.BigEndian.PutUint16(body, uint16(UserControlSetBufferLength))
	binary.BigEndian.PutUint32(body[2:6], m.StreamID)
	binary.BigEndian.PutUint32(body[6:10], m.BufferLengthMs)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeUserControl,
		Body:          body,
	}, nil
}
