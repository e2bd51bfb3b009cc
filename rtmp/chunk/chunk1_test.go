package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk1RoundTrip(t *testing.T) {
	c := Chunk1{
		ChunkStreamID:  25,
		TimestampDelta: 11641233,
		Type:           MessageTypeCommandAMF0,
		BodyLen:        4,
		Body:           []byte{0x01, 0x02, 0x03, 0x04},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk1
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 4))
	require.Equal(t, c, out)
}

func TestChunk1ExtendedTimestamp(t *testing.T) {
	c := Chunk1{
		ChunkStreamID:  4,
		TimestampDelta: 0xFFFFFFA0,
		Type:           MessageTypeAudio,
		BodyLen:        1,
		Body:           []byte{0x01},
		Extended:       true,
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk1
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 1))
	require.Equal(t, c, out)
}
