package flv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Version: 1, HasAudio: true, HasVideo: true}

	out, err := UnmarshalHeader(h.Marshal())
	require.NoError(t, err)
	require.Equal(t, uint32(9), out.DataOffset)
	require.True(t, out.HasAudio)
	require.True(t, out.HasVideo)
}

func TestHeaderRejectsBadSignature(t *testing.T) {
	buf := Header{Version: 1}.Marshal()
	buf[0] = 'X'

	_, err := UnmarshalHeader(buf)
	require.Error(t, err)
}

func TestHeaderRejectsTruncated(t *testing.T) {
	_, err := UnmarshalHeader([]byte{'F', 'L'})
	require.Error(t, err)
}

func TestTagHeaderRoundTrip(t *testing.T) {
	h := TagHeader{Type: TagTypeVideo, BodySize: 1234, Timestamp: -100, StreamID: 0}
	buf := make([]byte, 11)
	EncodeTagHeader(buf, h)
	require.Equal(t, h, DecodeTagHeader(buf))
}
