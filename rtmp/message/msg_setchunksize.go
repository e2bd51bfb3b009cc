package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgSetChunkSize is a Set Chunk Size control message (type 1). Value
// must be in [128, 65536] per §6.
type MsgSetChunkSize struct {
	Value uint32
}

// Unmarshal implements Message.
func (m *MsgSetChunkSize) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 4 {
		return &rtmperrs.ProtocolError{Reason: "invalid SetChunkSize body size"}
	}

	m.Value = binary.BigEndian.Uint32(raw.Body) & 0x7FFFFFFF
	return nil
}

// Marshal implements Message.
func (m MsgSetChunkSize) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, m.Value)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeSetChunkSize,
		Body:          body,
	}, nil
}
