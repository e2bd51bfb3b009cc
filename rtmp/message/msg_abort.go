package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgAbort is an Abort Message control message (type 2): it tells the
// peer to discard the partially-received message on ChunkStreamID.
type MsgAbort struct {
	ChunkStreamID uint32
}

// Unmarshal implements Message.
func (m *MsgAbort) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 4 {
		return &rtmperrs.ProtocolError{Reason: "invalid Abort body size"}
	}

	m.ChunkStreamID = binary.BigEndian.Uint32(raw.Body)
	return nil
}

// Marshal implements Message.
func (m MsgAbort) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, m.ChunkStreamID)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeAbortMessage,
		Body:          body,
	}, nil
}
