package session

import (
	"time"

	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/logger"
	"github.com/bluenviron/rtmplib/rtmp/message"
)

// WriteAudio sends one audio tag at timestamp, honoring the
// publisher's frame-drop policy (§4.8): if the configured clock has
// already passed the frame's drop deadline, the frame is silently
// dropped instead of sent.
func (s *Session) WriteAudio(timestamp time.Duration, tag flv.AudioTag) error {
	if s.shouldDrop(timestamp) {
		s.log.Log(logger.Debug, "[%s] dropped stale audio frame at %s", s.id, timestamp)
		return nil
	}

	return s.writeLocked(&message.MsgAudio{
		ChunkStreamID:   audioChunkStreamID,
		MessageStreamID: s.currentStreamID(),
		Timestamp:       uint32(timestamp.Milliseconds()),
		Tag:             tag,
	})
}

// WriteVideo sends one video tag at timestamp, subject to the same
// frame-drop policy as WriteAudio.
func (s *Session) WriteVideo(timestamp time.Duration, tag flv.VideoTag) error {
	if s.shouldDrop(timestamp) {
		s.log.Log(logger.Debug, "[%s] dropped stale video frame at %s", s.id, timestamp)
		return nil
	}

	return s.writeLocked(&message.MsgVideo{
		ChunkStreamID:   videoChunkStreamID,
		MessageStreamID: s.currentStreamID(),
		Timestamp:       uint32(timestamp.Milliseconds()),
		Tag:             tag,
	})
}

// WriteMetadata sends an AMF0 data message (e.g. @setDataFrame /
// onMetaData) on the media stream.
func (s *Session) WriteMetadata(payload []interface{}) error {
	return s.writeLocked(&message.MsgDataAMF0{
		ChunkStreamID:   dataChunkStreamID,
		MessageStreamID: s.currentStreamID(),
		Payload:         payload,
	})
}

const (
	audioChunkStreamID = message.AudioChunkStreamID
	videoChunkStreamID = message.VideoChunkStreamID
	dataChunkStreamID  = 4
)
