package message

import (
	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgCommandAMF3 is an AMF3 command message (type 17). Per the AMF3
// command wrapping, the AMF3 payload is preceded by a single format
// marker byte (always 0 for "AMF0 not fallback") which this type
// strips on decode and re-adds on encode.
type MsgCommandAMF3 struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Name            string
	TransactionID   float64
	Arguments       []interface{}
}

// Unmarshal implements Message.
func (m *MsgCommandAMF3) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID

	if len(raw.Body) < 1 {
		return &rtmperrs.ProtocolError{Reason: "AMF3 command missing format marker"}
	}

	vals, err := flvio.ParseAMFVals(raw.Body[1:], true)
	if err != nil {
		return &rtmperrs.ProtocolError{Reason: "malformed AMF3 command: " + err.Error()}
	}
	if len(vals) < 2 {
		return &rtmperrs.ProtocolError{Reason: "AMF3 command missing name/transaction id"}
	}

	name, ok := vals[0].(string)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "AMF3 command name is not a string"}
	}
	tid, ok := vals[1].(float64)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "AMF3 command transaction id is not a number"}
	}

	m.Name = name
	m.TransactionID = tid
	m.Arguments = vals[2:]
	return nil
}

// Marshal implements Message.
func (m MsgCommandAMF3) Marshal() (*rawmessage.Message, error) {
	vals := append([]interface{}{m.Name, m.TransactionID}, m.Arguments...)
	encoded := flvio.FillAMF0ValsMalloc(vals)

	body := make([]byte, 1+len(encoded))
	copy(body[1:], encoded)

	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Type:            chunk.MessageTypeCommandAMF3,
		MessageStreamID: m.MessageStreamID,
		Body:            body,
	}, nil
}
