package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk0RoundTrip(t *testing.T) {
	c := Chunk0{
		ChunkStreamID:   25,
		Timestamp:       11641233,
		Type:            MessageTypeCommandAMF0,
		MessageStreamID: 56432445,
		BodyLen:         4,
		Body:            []byte{0x01, 0x02, 0x03, 0x04},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	// Marshal includes the basic header; Read expects it already consumed.
	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk0
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 4))
	require.Equal(t, c, out)
}

func TestChunk0ExtendedTimestamp(t *testing.T) {
	c := Chunk0{
		ChunkStreamID:   3,
		Timestamp:       0x01234567,
		Type:            MessageTypeVideo,
		MessageStreamID: 1,
		BodyLen:         2,
		Body:            []byte{0xAA, 0xBB},
		Extended:        true,
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	basicLen := len(BasicHeader{ChunkStreamID: c.ChunkStreamID}.Marshal())

	var out Chunk0
	require.NoError(t, out.Read(bytes.NewReader(buf[basicLen:]), 2))
	require.Equal(t, c, out)
}
