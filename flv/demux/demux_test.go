package demux

import (
	"io"
	"testing"

	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/flv"
	"github.com/stretchr/testify/require"
)

func buildStream(t *testing.T, tags []flv.Tag, headers []flv.TagHeader) []byte {
	t.Helper()
	var out []byte
	out = append(out, flv.Header{Version: 1, HasVideo: true}.Marshal()...)
	out = append(out, flv.PrevTagSize(0)...)

	for i, tag := range tags {
		h := headers[i]
		h.BodySize = tag.EncodedSize()

		hdrBuf := make([]byte, 11)
		flv.EncodeTagHeader(hdrBuf, h)
		out = append(out, hdrBuf...)

		body := make([]byte, h.BodySize)
		require.NoError(t, tag.Encode(body))
		out = append(out, body...)

		out = append(out, flv.PrevTagSize(11+h.BodySize)...)
	}
	return out
}

func TestDemuxerIteratesTags(t *testing.T) {
	script := flv.ScriptTag{Name: "onMetaData"}
	video := flv.VideoTag{
		FrameType: flv.VideoFrameKey, CodecID: 7, AVCPacketType: 1,
		LegacyBody: []byte{1, 2, 3},
	}

	stream := buildStream(t,
		[]flv.Tag{script, video},
		[]flv.TagHeader{{Type: flv.TagTypeScriptAMF0}, {Type: flv.TagTypeVideo, Timestamp: 40}},
	)

	d, err := New(bytesrc.SizedSource{Source: bytesrc.NewBytes(stream), Size: uint32(len(stream))})
	require.NoError(t, err)
	require.True(t, d.Header.HasVideo)

	h1, t1, err := d.Next()
	require.NoError(t, err)
	require.Equal(t, flv.TagTypeScriptAMF0, h1.Type)
	require.IsType(t, flv.ScriptTag{}, t1)

	h2, t2, err := d.Next()
	require.NoError(t, err)
	require.Equal(t, flv.TagTypeVideo, h2.Type)
	require.Equal(t, int32(40), h2.Timestamp)
	require.IsType(t, flv.VideoTag{}, t2)

	_, _, err = d.Next()
	require.ErrorIs(t, err, io.EOF)
}
