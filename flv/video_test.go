package flv

import (
	"testing"

	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/stretchr/testify/require"
)

func roundTripVideo(t *testing.T, tag VideoTag) VideoTag {
	buf := make([]byte, tag.EncodedSize())
	require.NoError(t, tag.Encode(buf))

	out, err := DecodeVideoTag(bytesrc.NewBytes(buf), uint32(len(buf)))
	require.NoError(t, err)
	return out
}

func TestVideoTagLegacyAVC(t *testing.T) {
	tag := VideoTag{
		FrameType:       VideoFrameKey,
		CodecID:         7,
		AVCPacketType:   1,
		CompositionTime: 33,
		LegacyBody:      []byte{1, 2, 3},
	}

	out := roundTripVideo(t, tag)
	require.Equal(t, tag, out)
}

func TestVideoTagEnhancedSingleTrack(t *testing.T) {
	tag := VideoTag{
		Enhanced:   true,
		FrameType:  VideoFrameKey,
		PacketType: VideoPacketCodedFrames,
		Tracks: []VideoTrack{
			{FourCC: FourCCHEVC, CompositionTime: -20, Data: []byte{9, 9, 9}},
		},
	}

	out := roundTripVideo(t, tag)
	require.Equal(t, tag, out)
}

func TestVideoTagEnhancedSequenceStartNoCompositionTime(t *testing.T) {
	tag := VideoTag{
		Enhanced:   true,
		FrameType:  VideoFrameKey,
		PacketType: VideoPacketSequenceStart,
		Tracks:     []VideoTrack{{FourCC: FourCCAV1, Data: []byte{1, 2}}},
	}

	out := roundTripVideo(t, tag)
	require.Equal(t, tag, out)
}

func TestVideoTagCommandFrame(t *testing.T) {
	tag := VideoTag{
		Enhanced:  true,
		FrameType: VideoFrameCommand,
		Command:   VideoCommandStartSeek,
	}

	out := roundTripVideo(t, tag)
	require.Equal(t, tag, out)
}

func TestVideoTagMultitrack(t *testing.T) {
	tag := VideoTag{
		Enhanced:        true,
		FrameType:       VideoFrameKey,
		PacketType:      VideoPacketMultitrack,
		TrackDescriptor: VideoTrackManyTrackManyCodec,
		Tracks: []VideoTrack{
			{FourCC: FourCCAVC, TrackID: 0, CompositionTime: 10, Data: []byte{1, 2}},
			{FourCC: FourCCVP9, TrackID: 1, Data: []byte{3, 4, 5}},
		},
	}

	out := roundTripVideo(t, tag)
	require.Equal(t, tag, out)
}
