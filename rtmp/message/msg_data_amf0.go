package message

import (
	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// MsgDataAMF0 is an AMF0 data message (type 18): metadata or
// out-of-band data with no transaction id and no reply, e.g.
// @setDataFrame/onMetaData sent before a stream's media.
type MsgDataAMF0 struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Payload         []interface{}
}

// Unmarshal implements Message.
func (m *MsgDataAMF0) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID

	vals, err := flvio.ParseAMFVals(raw.Body, false)
	if err != nil {
		return &rtmperrs.ProtocolError{Reason: "malformed AMF0 data: " + err.Error()}
	}
	m.Payload = vals
	return nil
}

// Marshal implements Message.
func (m MsgDataAMF0) Marshal() (*rawmessage.Message, error) {
	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Type:            chunk.MessageTypeDataAMF0,
		MessageStreamID: m.MessageStreamID,
		Body:            flvio.FillAMF0ValsMalloc(m.Payload),
	}, nil
}
