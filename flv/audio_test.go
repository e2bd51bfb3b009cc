package flv

import (
	"testing"

	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/stretchr/testify/require"
)

func roundTripAudio(t *testing.T, tag AudioTag) AudioTag {
	buf := make([]byte, tag.EncodedSize())
	require.NoError(t, tag.Encode(buf))

	out, err := DecodeAudioTag(bytesrc.NewBytes(buf), uint32(len(buf)))
	require.NoError(t, err)
	return out
}

func TestAudioTagLegacyAAC(t *testing.T) {
	tag := AudioTag{
		SoundFormat:   10,
		SoundRate:     3,
		SoundSize:     1,
		SoundType:     1,
		AACPacketType: 1,
		LegacyBody:    []byte{0xAA, 0xBB, 0xCC},
	}

	out := roundTripAudio(t, tag)
	require.Equal(t, tag, out)
}

func TestAudioTagEnhancedSingleTrack(t *testing.T) {
	tag := AudioTag{
		Enhanced:   true,
		PacketType: AudioPacketCodedFrames,
		Tracks:     []AudioTrack{{FourCC: FourCCOpus, Data: []byte{1, 2, 3, 4}}},
	}

	out := roundTripAudio(t, tag)
	require.Equal(t, tag, out)
}

func TestAudioTagEnhancedMultichannelConfig(t *testing.T) {
	tag := AudioTag{
		Enhanced:   true,
		PacketType: AudioPacketMultichannelConfig,
		MultichannelConfig: &AudioChannelConfig{
			ChannelOrder:   AudioChannelOrderCustom,
			ChannelCount:   2,
			ChannelMapping: []byte{1, 2},
		},
	}

	out := roundTripAudio(t, tag)
	require.Equal(t, tag, out)
}

func TestAudioTagEnhancedMultitrack(t *testing.T) {
	tag := AudioTag{
		Enhanced:        true,
		PacketType:      AudioPacketMultitrack,
		TrackDescriptor: AudioTrackManyTrack,
		Tracks: []AudioTrack{
			{FourCC: FourCCAAC, TrackID: 0, Data: []byte{1, 2}},
			{FourCC: FourCCAAC, TrackID: 1, Data: []byte{3, 4, 5}},
		},
	}

	out := roundTripAudio(t, tag)
	require.Equal(t, tag, out)
}

func TestAudioTagEnhancedModEx(t *testing.T) {
	tag := AudioTag{
		Enhanced:   true,
		PacketType: AudioPacketCodedFrames,
		ModEx:      []ModExEntry{{Type: ModExTimestampOffsetNano, Data: []byte{0, 0, 0, 7}}},
		Tracks:     []AudioTrack{{FourCC: FourCCAAC, Data: []byte{9, 9}}},
	}

	out := roundTripAudio(t, tag)
	require.Equal(t, tag, out)
}
