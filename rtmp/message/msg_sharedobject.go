package message

import (
	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
)

// MsgSharedObjectAMF0 and MsgSharedObjectAMF3 carry Shared Object
// protocol messages (types 19 and 16) opaquely: §3 lists the message
// type but the shared-object sub-protocol itself is out of this
// library's scope, so the raw body passes through untouched for a
// caller that wants to forward or inspect it.
type MsgSharedObjectAMF0 struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Payload         []byte
}

// Unmarshal implements Message.
func (m *MsgSharedObjectAMF0) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID
	m.Payload = raw.Body
	return nil
}

// Marshal implements Message.
func (m MsgSharedObjectAMF0) Marshal() (*rawmessage.Message, error) {
	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Type:            chunk.MessageTypeSharedAMF0,
		MessageStreamID: m.MessageStreamID,
		Body:            m.Payload,
	}, nil
}

// MsgSharedObjectAMF3 is MsgSharedObjectAMF0's AMF3 counterpart (type 16).
type MsgSharedObjectAMF3 struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Payload         []byte
}

// Unmarshal implements Message.
func (m *MsgSharedObjectAMF3) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID
	m.Payload = raw.Body
	return nil
}

// Marshal implements Message.
func (m MsgSharedObjectAMF3) Marshal() (*rawmessage.Message, error) {
	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Type:            chunk.MessageTypeSharedAMF3,
		MessageStreamID: m.MessageStreamID,
		Body:            m.Payload,
	}, nil
}
