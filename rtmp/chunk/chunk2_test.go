package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk2RoundTrip(t *testing.T) {
	c := Chunk2{
		ChunkStreamID:  25,
		TimestampDelta: 40,
		Body:           []byte{0x01, 0x02, 0x03, 0x04},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk2
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 4))
	require.Equal(t, c, out)
}

func TestChunk2ExtendedTimestamp(t *testing.T) {
	c := Chunk2{
		ChunkStreamID:  7,
		TimestampDelta: 0xFFFFFFA0,
		Body:           []byte{0x02},
		Extended:       true,
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk2
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 1))
	require.Equal(t, c, out)
}
