package message

import (
	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
)

// AudioChunkStreamID is the chunk stream ID conventionally used to
// carry audio messages.
const AudioChunkStreamID = 4

// MsgAudio is an audio message (type 8). Its body is exactly an FLV
// audio tag body, legacy or enhanced, decoded through the flv package
// so every SoundFormat/ex-header variant in §3 is supported.
type MsgAudio struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Timestamp       uint32 // milliseconds, per §3
	Tag             flv.AudioTag
}

// Unmarshal implements Message.
func (m *MsgAudio) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID
	m.Timestamp = uint32(raw.Timestamp.Milliseconds())

	tag, err := flv.DecodeAudioTag(bytesrc.NewBytes(raw.Body), uint32(len(raw.Body)))
	if err != nil {
		return err
	}
	m.Tag = tag
	return nil
}

// Marshal implements Message.
func (m MsgAudio) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, m.Tag.EncodedSize())
	if err := m.Tag.Encode(body); err != nil {
		return nil, err
	}

	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Timestamp:       msTimestamp(m.Timestamp),
		Type:            chunk.MessageTypeAudio,
		MessageStreamID: m.MessageStreamID,
		Body:            body,
	}, nil
}
