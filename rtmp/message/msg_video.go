package message

import (
	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
)

// VideoChunkStreamID is the chunk stream ID conventionally used to
// carry video messages.
const VideoChunkStreamID = 6

// MsgVideo is a video message (type 9). Its body is exactly an FLV
// video tag body, legacy or enhanced, decoded through the flv package.
type MsgVideo struct {
	ChunkStreamID   uint32
	MessageStreamID uint32
	Timestamp       uint32 // milliseconds, per §3
	Tag             flv.VideoTag
}

// Unmarshal implements Message.
func (m *MsgVideo) Unmarshal(raw *rawmessage.Message) error {
	m.ChunkStreamID = raw.ChunkStreamID
	m.MessageStreamID = raw.MessageStreamID
	m.Timestamp = uint32(raw.Timestamp.Milliseconds())

	tag, err := flv.DecodeVideoTag(bytesrc.NewBytes(raw.Body), uint32(len(raw.Body)))
	if err != nil {
		return err
	}
	m.Tag = tag
	return nil
}

// Marshal implements Message.
func (m MsgVideo) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, m.Tag.EncodedSize())
	if err := m.Tag.Encode(body); err != nil {
		return nil, err
	}

	return &rawmessage.Message{
		ChunkStreamID:   m.ChunkStreamID,
		Timestamp:       msTimestamp(m.Timestamp),
		Type:            chunk.MessageTypeVideo,
		MessageStreamID: m.MessageStreamID,
		Body:            body,
	}, nil
}
