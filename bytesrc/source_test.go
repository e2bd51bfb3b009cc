package bytesrc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesSource(t *testing.T) {
	src := NewBytes([]byte("hello world"))

	dst := make([]byte, 5)
	n, ok := src.ReadAtMost(dst)
	require.True(t, ok)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(dst))

	rest, err := Materialize(src)
	require.NoError(t, err)
	require.Equal(t, " world", string(rest))

	_, ok = src.ReadAtMost(dst)
	require.False(t, ok)
}

func TestBytesSourceAtOffset(t *testing.T) {
	src := NewBytesAt([]byte("0123456789"), 3)
	out, err := Materialize(src)
	require.NoError(t, err)
	require.Equal(t, "3456789", string(out))
}

func TestConcatSource(t *testing.T) {
	src := Concat(
		NewBytes([]byte("abc")),
		NewBytes([]byte("")),
		NewBytes([]byte("def")),
	)

	out, err := Materialize(src)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(out))
}

func TestReadFull(t *testing.T) {
	src := NewBytes([]byte("0123456789"))

	buf, err := ReadFull(src, 4)
	require.NoError(t, err)
	require.Equal(t, "0123", string(buf))

	_, err = ReadFull(src, 100)
	require.Error(t, err)
}

func TestConcatClose(t *testing.T) {
	a := NewBytes([]byte("a"))
	b := NewBytes([]byte("b"))
	src := Concat(a, b)
	require.NoError(t, src.Close())
}
