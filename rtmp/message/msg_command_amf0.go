package message

import (
	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgCommandAMF0 is an AMF0 command message (type 20): a named RPC
// call or reply carrying a transaction id, an optional command
// object, and trailing arguments, per §3's Command message grammar.
type MsgCommandAMF0 struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Name            string
	TransactionID   float64
	Arguments       []interface{} // commandObject (or nil), then any further args
}

// Unmarshal implements Message. It is tolerant of extra trailing
// arguments, per §4.6.
func (m *MsgCommandAMF0) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID

	vals, err := flvio.ParseAMFVals(raw.Body, false)
	if err != nil {
		return &rtmperrs.ProtocolError{Reason: "malformed AMF0 command: " + err.Error()}
	}
	if len(vals) < 2 {
		return &rtmperrs.ProtocolError{Reason: "AMF0 command missing name/transaction id"}
	}

	name, ok := vals[0].(string)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "AMF0 command name is not a string"}
	}
	tid, ok := vals[1].(float64)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "AMF0 command transaction id is not a number"}
	}

	m.Name = name
	m.TransactionID = tid
	m.Arguments = vals[2:]
	return nil
}

// Marshal implements Message.
func (m MsgCommandAMF0) Marshal() (*rawmessage.Message, error) {
	vals := append([]interface{}{m.Name, m.TransactionID}, m.Arguments...)

	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Type:            chunk.MessageTypeCommandAMF0,
		MessageStreamID: m.MessageStreamID,
		Body:            flvio.FillAMF0ValsMalloc(vals),
	}, nil
}
