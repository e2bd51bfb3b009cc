package flv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitNALUsAnnexB4(t *testing.T) {
	in := append([]byte{0, 0, 0, 1}, append([]byte{0xAA, 0xBB},
		append([]byte{0, 0, 0, 1}, []byte{0xCC}...)...)...)

	nalus, err := SplitNALUs(in)
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0xAA, 0xBB}, {0xCC}}, nalus)
}

func TestSplitNALUsAnnexB3(t *testing.T) {
	in := []byte{0, 0, 1, 0xAA, 0xBB, 0, 0, 1, 0xCC}

	nalus, err := SplitNALUs(in)
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0xAA, 0xBB}, {0xCC}}, nalus)
}

func TestSplitNALUsAVCC(t *testing.T) {
	nalu := []byte{0xAA, 0xBB, 0xCC}
	in := JoinAVCC([][]byte{nalu})

	nalus, err := SplitNALUs(in)
	require.NoError(t, err)
	require.Equal(t, [][]byte{nalu}, nalus)
}

func TestSplitNALUsBare(t *testing.T) {
	nalus, err := SplitNALUs([]byte{0x67, 0x01, 0x02})
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0x67, 0x01, 0x02}}, nalus)
}

func TestJoinAVCCRoundTrip(t *testing.T) {
	in := [][]byte{{1, 2, 3}, {4, 5}}
	out, err := SplitNALUs(JoinAVCC(in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestFourCCRoundTrip(t *testing.T) {
	f := NewFourCC('a', 'v', 'c', '1')
	require.Equal(t, FourCCAVC, f)
	require.Equal(t, "avc1", f.String())

	b := make([]byte, 4)
	f.Put(b)
	require.Equal(t, f, ReadFourCC(b))
}

func TestU24RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0x7fffff, 0xffffff} {
		b := make([]byte, 3)
		PutU24(b, v)
		require.Equal(t, v, ReadU24(b))
	}
}

func TestI24RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 0x7fffff, -0x800000} {
		b := make([]byte, 3)
		PutI24(b, v)
		require.Equal(t, v, ReadI24(b))
	}
}
