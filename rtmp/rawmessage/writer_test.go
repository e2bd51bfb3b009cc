package rawmessage

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/chunk"
)

func TestWriterPicksSmallestChunkType(t *testing.T) {
	var buf bytes.Buffer
	bcw := bytecounter.NewWriter(&buf)
	w := NewWriter(bcw, bcw, false)

	err := w.Write(&Message{
		ChunkStreamID:   27,
		Timestamp:       18576 * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x02}, 64),
	})
	require.NoError(t, err)

	// same message stream, same type, same body length, new delta: Chunk2.
	err = w.Write(&Message{
		ChunkStreamID:   27,
		Timestamp:       (18576 + 15) * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x03}, 64),
	})
	require.NoError(t, err)

	// same delta again: Chunk3.
	err = w.Write(&Message{
		ChunkStreamID:   27,
		Timestamp:       (18576 + 15 + 15) * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x04}, 64),
	})
	require.NoError(t, err)

	bcr := bytecounter.NewReader(&buf)
	r := NewReader(bcr, bcr, noAck)

	msg, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, uint32(18576), uint32(msg.Timestamp/time.Millisecond))

	msg, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, uint32(18576+15), uint32(msg.Timestamp/time.Millisecond))
	require.Equal(t, bytes.Repeat([]byte{0x03}, 64), msg.Body)

	msg, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, uint32(18576+15+15), uint32(msg.Timestamp/time.Millisecond))
	require.Equal(t, bytes.Repeat([]byte{0x04}, 64), msg.Body)
}

func TestWriterSplitsLargeMessageAcrossChunks(t *testing.T) {
	var buf bytes.Buffer
	bcw := bytecounter.NewWriter(&buf)
	w := NewWriter(bcw, bcw, false)
	w.SetChunkSize(64)

	body := bytes.Repeat([]byte{0x07}, 192)
	err := w.Write(&Message{
		ChunkStreamID:   8,
		Timestamp:       1000 * time.Millisecond,
		Type:            chunk.MessageTypeVideo,
		MessageStreamID: 1,
		Body:            body,
	})
	require.NoError(t, err)

	bcr := bytecounter.NewReader(&buf)
	r := NewReader(bcr, bcr, noAck)
	r.SetChunkSize(64)

	msg, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, body, msg.Body)
}

func TestWriterRejectsWhenAcknowledgeMissing(t *testing.T) {
	var buf bytes.Buffer
	bcw := bytecounter.NewWriter(&buf)
	w := NewWriter(bcw, bcw, true)
	w.SetWindowAckSize(4)

	// the first message's bytes are written without checking anything
	// against them yet; the window is only checked before each write.
	var lastErr error
	for i := 0; i < 10; i++ {
		lastErr = w.Write(&Message{
			ChunkStreamID:   3,
			Timestamp:       0,
			Type:            chunk.MessageTypeAudio,
			MessageStreamID: 1,
			Body:            bytes.Repeat([]byte{0x01}, 64),
		})
		if lastErr != nil {
			break
		}
	}
	require.Error(t, lastErr)
}
