package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgAcknowledge is an Acknowledgement message (type 3): it reports
// the total number of bytes read so far on the connection.
type MsgAcknowledge struct {
	Value uint32
}

// Unmarshal implements Message.
func (m *MsgAcknowledge) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 4 {
		return &rtmperrs.ProtocolError{Reason: "invalid Acknowledgement body size"}
	}

	m.Value = binary.BigEndian.Uint32(raw.Body)
	return nil
}

// Marshal implements Message.
func (m MsgAcknowledge) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, m.Value)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeAcknowledge,
		Body:          body,
	}, nil
}
