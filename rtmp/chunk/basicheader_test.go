package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicHeaderOneByteForm(t *testing.T) {
	h := BasicHeader{Fmt: 1, ChunkStreamID: 25}
	buf := h.Marshal()
	require.Equal(t, []byte{0x59}, buf)

	out, err := ReadBasicHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, h, out)
}

func TestBasicHeaderTwoByteForm(t *testing.T) {
	h := BasicHeader{Fmt: 0, ChunkStreamID: 200}
	buf := h.Marshal()
	require.Len(t, buf, 2)

	out, err := ReadBasicHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, h, out)
}

func TestBasicHeaderThreeByteForm(t *testing.T) {
	h := BasicHeader{Fmt: 2, ChunkStreamID: 65599}
	buf := h.Marshal()
	require.Len(t, buf, 3)

	out, err := ReadBasicHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, h, out)
}
