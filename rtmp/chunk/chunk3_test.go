package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk3RoundTrip(t *testing.T) {
	c := Chunk3{
		ChunkStreamID: 25,
		Body:          []byte{0x01, 0x02, 0x03, 0x04},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk3
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 4, false))
	require.Equal(t, c, out)
}

func TestChunk3RepeatsExtendedTimestamp(t *testing.T) {
	c := Chunk3{
		ChunkStreamID:         6,
		HasExtendedTimestamp:  true,
		ExtendedTimestamp:     0xFFFFFFA0,
		Body:                  []byte{0x09},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk3
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 1, true))
	require.Equal(t, c, out)
}
