package rawmessage

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/chunk"
)

func noAck(uint32) error { return nil }

func TestReaderChunk0Chunk1(t *testing.T) {
	var buf bytes.Buffer

	c0 := chunk.Chunk0{
		ChunkStreamID:   27,
		Timestamp:       18576,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		BodyLen:         64,
		Body:            bytes.Repeat([]byte{0x02}, 64),
	}
	b0, err := c0.Marshal()
	require.NoError(t, err)
	buf.Write(b0)

	c1 := chunk.Chunk1{
		ChunkStreamID:  27,
		TimestampDelta: 15,
		Type:           chunk.MessageTypeSetPeerBandwidth,
		BodyLen:        64,
		Body:           bytes.Repeat([]byte{0x03}, 64),
	}
	b1, err := c1.Marshal()
	require.NoError(t, err)
	buf.Write(b1)

	bcr := bytecounter.NewReader(&buf)
	r := NewReader(bcr, bcr, noAck)

	msg, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, &Message{
		ChunkStreamID:   27,
		Timestamp:       18576 * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x02}, 64),
	}, msg)

	msg, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, &Message{
		ChunkStreamID:   27,
		Timestamp:       (18576 + 15) * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x03}, 64),
	}, msg)
}

func TestReaderChunk0Chunk2Chunk3(t *testing.T) {
	var buf bytes.Buffer

	for _, m := range []marshaler{
		&chunk.Chunk0{
			ChunkStreamID:   27,
			Timestamp:       18576,
			Type:            chunk.MessageTypeSetPeerBandwidth,
			MessageStreamID: 3123,
			BodyLen:         64,
			Body:            bytes.Repeat([]byte{0x02}, 64),
		},
		&chunk.Chunk2{
			ChunkStreamID:  27,
			TimestampDelta: 15,
			Body:           bytes.Repeat([]byte{0x03}, 64),
		},
		&chunk.Chunk3{
			ChunkStreamID: 27,
			Body:          bytes.Repeat([]byte{0x04}, 64),
		},
	} {
		b, err := m.Marshal()
		require.NoError(t, err)
		buf.Write(b)
	}

	bcr := bytecounter.NewReader(&buf)
	r := NewReader(bcr, bcr, noAck)

	_, err := r.Read()
	require.NoError(t, err)
	_, err = r.Read()
	require.NoError(t, err)

	msg, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, &Message{
		ChunkStreamID:   27,
		Timestamp:       (18576 + 15 + 15) * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x04}, 64),
	}, msg)
}

func TestReaderSplitBodyAcrossChunk0Chunk3(t *testing.T) {
	var buf bytes.Buffer

	c0 := chunk.Chunk0{
		ChunkStreamID:   27,
		Timestamp:       18576,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		BodyLen:         192,
		Body:            bytes.Repeat([]byte{0x03}, 128),
	}
	b0, err := c0.Marshal()
	require.NoError(t, err)
	buf.Write(b0)

	c3 := chunk.Chunk3{
		ChunkStreamID: 27,
		Body:          bytes.Repeat([]byte{0x03}, 64),
	}
	b3, err := c3.Marshal()
	require.NoError(t, err)
	buf.Write(b3)

	bcr := bytecounter.NewReader(&buf)
	r := NewReader(bcr, bcr, noAck)
	r.SetChunkSize(128)

	msg, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, &Message{
		ChunkStreamID:   27,
		Timestamp:       18576 * time.Millisecond,
		Type:            chunk.MessageTypeSetPeerBandwidth,
		MessageStreamID: 3123,
		Body:            bytes.Repeat([]byte{0x03}, 192),
	}, msg)
}

func TestReaderExtendedTimestampChunk3Repeat(t *testing.T) {
	var buf bytes.Buffer

	c0 := chunk.Chunk0{
		ChunkStreamID:   4,
		Timestamp:       0xFFFFFFA0,
		Type:            chunk.MessageTypeAudio,
		MessageStreamID: 1,
		BodyLen:         128,
		Body:            bytes.Repeat([]byte{0x09}, 64),
	}
	b0, err := c0.Marshal()
	require.NoError(t, err)
	buf.Write(b0)

	c3 := chunk.Chunk3{
		ChunkStreamID:        4,
		HasExtendedTimestamp: true,
		ExtendedTimestamp:    0xFFFFFFA0,
		Body:                 bytes.Repeat([]byte{0x09}, 64),
	}
	b3, err := c3.Marshal()
	require.NoError(t, err)
	buf.Write(b3)

	bcr := bytecounter.NewReader(&buf)
	r := NewReader(bcr, bcr, noAck)
	r.SetChunkSize(64)

	msg, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, &Message{
		ChunkStreamID:   4,
		Timestamp:       time.Duration(0xFFFFFFA0) * time.Millisecond,
		Type:            chunk.MessageTypeAudio,
		MessageStreamID: 1,
		Body:            bytes.Repeat([]byte{0x09}, 128),
	}, msg)
}
