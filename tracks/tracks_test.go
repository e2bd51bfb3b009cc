package tracks

import (
	"net"
	"testing"

	"github.com/bluenviron/gortsplib/v4/pkg/format"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"
	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/message"
)

func pipeReaderWriter(t *testing.T) (*message.Reader, *message.Writer, func()) {
	t.Helper()
	a, b := net.Pipe()

	bcA := bytecounter.NewReadWriter(a, nil)
	bcB := bytecounter.NewReadWriter(b, nil)

	w := message.NewWriter(bcA.Writer, false)
	r := message.NewReader(bcB.Reader, func(uint32) error { return nil })

	return r, w, func() {
		a.Close() //nolint:errcheck
		b.Close() //nolint:errcheck
	}
}

func TestWriteReadH264AACRoundTrip(t *testing.T) {
	r, w, closeAll := pipeReaderWriter(t)
	defer closeAll()

	video := &format.H264{PayloadTyp: 96, PacketizationMode: 1}
	video.SafeSetParams([]byte{0x67, 0x42, 0x00, 0x1e, 0xaa, 0xbb}, []byte{0x68, 0xce, 0x3c, 0x80})

	audio := &format.MPEG4Audio{
		PayloadTyp: 96,
		Config: &mpeg4audio.Config{
			Type:         mpeg4audio.ObjectTypeAACLC,
			SampleRate:   44100,
			ChannelCount: 2,
		},
		SizeLength:       13,
		IndexLength:      3,
		IndexDeltaLength: 3,
	}

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- Write(w, video, audio)
	}()

	videoOut, audioOut, err := Read(r)
	require.NoError(t, err)
	require.NoError(t, <-doneCh)

	h264Out, ok := videoOut.(*format.H264)
	require.True(t, ok)
	sps, pps := h264Out.SafeParams()
	require.Equal(t, []byte{0x67, 0x42, 0x00, 0x1e, 0xaa, 0xbb}, sps)
	require.Equal(t, []byte{0x68, 0xce, 0x3c, 0x80}, pps)

	aacOut, ok := audioOut.(*format.MPEG4Audio)
	require.True(t, ok)
	require.Equal(t, 44100, aacOut.Config.SampleRate)
	require.Equal(t, 2, aacOut.Config.ChannelCount)
}

func TestVideoCodecExpectedMissingKeyMeansNoVideo(t *testing.T) {
	expected, fourCC, err := videoCodecExpected(nil)
	require.NoError(t, err)
	require.False(t, expected)
	require.Zero(t, fourCC)
}

func TestVideoCodecExpectedRejectsVP9(t *testing.T) {
	_, _, err := videoCodecExpected("vp09")
	require.Error(t, err)
}

func TestAudioCodecExpectedLegacyMP3IsImmediate(t *testing.T) {
	expected, track, _, err := audioCodecExpected(float64(legacySoundMP3))
	require.NoError(t, err)
	require.True(t, expected)
	require.IsType(t, &format.MPEG2Audio{}, track)
}

func TestVideoTrackFromTagRecoversOBSHEVCInAVCTag(t *testing.T) {
	vps := []byte{0x40, 0x01, 0x0c}
	sps := []byte{0x42, 0x01, 0x01}
	pps := []byte{0x44, 0x01}

	tag := flv.VideoTag{
		CodecID:       legacyCodecIDAVC,
		AVCPacketType: legacyAVCNALUs,
		FrameType:     flv.VideoFrameKey,
		LegacyBody:    flv.JoinAVCC([][]byte{vps, sps, pps}),
	}

	track, err := videoTrackFromTag(tag, flv.FourCCAVC)
	require.NoError(t, err)
	h265Out, ok := track.(*format.H265)
	require.True(t, ok)
	require.Equal(t, vps, h265Out.VPS)
	require.Equal(t, sps, h265Out.SPS)
	require.Equal(t, pps, h265Out.PPS)
}
