package bytecounter

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0x01}, 1024))

	r := NewReader(&buf)
	buf2 := make([]byte, 64)
	n, err := r.Read(buf2)
	require.NoError(t, err)
	require.Equal(t, 64, n)

	require.Equal(t, uint32(1024), r.Count())
}

func TestReaderCallback(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0x01}, 2048))

	var lastTotal uint32
	var calls int
	r := NewReaderWithCallback(&buf, func(total uint32) {
		calls++
		lastTotal = total
	})

	dst := make([]byte, 2048)
	_, err := io.ReadFull(r, dst)
	require.NoError(t, err)
	require.Greater(t, calls, 0)
	require.Equal(t, uint32(2048), lastTotal)
}
