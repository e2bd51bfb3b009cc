package message

import (
	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgDataAMF3 is an AMF3 data message (type 15), wrapped with the same
// leading format-marker byte as MsgCommandAMF3.
type MsgDataAMF3 struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Payload         []interface{}
}

// Unmarshal implements Message.
func (m *MsgDataAMF3) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID

	if len(raw.Body) < 1 {
		return &rtmperrs.ProtocolError{Reason: "AMF3 data missing format marker"}
	}

	vals, err := flvio.ParseAMFVals(raw.Body[1:], true)
	if err != nil {
		return &rtmperrs.ProtocolError{Reason: "malformed AMF3 data: " + err.Error()}
	}
	m.Payload = vals
	return nil
}

// Marshal implements Message.
func (m MsgDataAMF3) Marshal() (*rawmessage.Message, error) {
	encoded := flvio.FillAMF0ValsMalloc(m.Payload)
	body := make([]byte, 1+len(encoded))
	copy(body[1:], encoded)

	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Type:            chunk.MessageTypeDataAMF3,
		MessageStreamID: m.MessageStreamID,
		Body:            body,
	}, nil
}
