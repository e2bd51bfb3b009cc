package tracks

import (
	"github.com/bluenviron/gortsplib/v4/pkg/format"
	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/flv/avcconf"
	"github.com/bluenviron/rtmplib/flv/hevcconf"
	"github.com/bluenviron/rtmplib/rtmp/message"
)

const (
	metadataChunkStreamID = 4
	metadataStreamID      = 0x1000000
)

func videoCodecIDValue(videoTrack format.Format) interface{} {
	switch videoTrack.(type) {
	case *format.H264:
		return float64(legacyCodecIDAVC)
	case *format.H265:
		return "hvc1"
	case *format.AV1:
		return "av01"
	default:
		return float64(0)
	}
}

func audioCodecIDValue(audioTrack format.Format) interface{} {
	switch audioTrack.(type) {
	case *format.MPEG2Audio:
		return float64(legacySoundMP3)
	case *format.MPEG4Audio:
		return float64(legacySoundAAC)
	case *format.Opus:
		return "Opus"
	default:
		return float64(0)
	}
}

// Write sends the @setDataFrame/onMetaData object describing
// videoTrack/audioTrack, followed by whichever decoder-config tags
// those tracks' parameters are available for. Either track may be
// nil. AV1 tracks carry no decoder-config bytes of their own (gortsplib's
// format.AV1 keeps only optional fmtp hints, not the raw sequence
// header), so no config tag is sent for them; the first coded frame's
// own sequence header stands in for it.
func Write(w *message.Writer, videoTrack, audioTrack format.Format) error {
	err := w.Write(&message.MsgDataAMF0{
		ChunkStreamID:   metadataChunkStreamID,
		MessageStreamID: metadataStreamID,
		Payload: []interface{}{
			"@setDataFrame",
			"onMetaData",
			flvio.AMFMap{
				{K: "videodatarate", V: float64(0)},
				{K: "videocodecid", V: videoCodecIDValue(videoTrack)},
				{K: "audiodatarate", V: float64(0)},
				{K: "audiocodecid", V: audioCodecIDValue(audioTrack)},
			},
		},
	})
	if err != nil {
		return err
	}

	if err := writeVideoConfig(w, videoTrack); err != nil {
		return err
	}
	return writeAudioConfig(w, audioTrack)
}

func writeVideoConfig(w *message.Writer, videoTrack format.Format) error {
	switch track := videoTrack.(type) {
	case *format.H264:
		sps, pps := track.SafeParams()
		if sps == nil || pps == nil {
			return nil
		}
		buf, err := avcconf.Config{SPS: [][]byte{sps}, PPS: [][]byte{pps}}.Marshal()
		if err != nil {
			return err
		}
		return w.Write(&message.MsgVideo{
			ChunkStreamID:   message.VideoChunkStreamID,
			MessageStreamID: metadataStreamID,
			Tag: flv.VideoTag{
				FrameType:       flv.VideoFrameKey,
				CodecID:         legacyCodecIDAVC,
				AVCPacketType:   legacyAVCConfig,
				CompositionTime: 0,
				LegacyBody:      buf,
			},
		})

	case *format.H265:
		if track.VPS == nil || track.SPS == nil || track.PPS == nil {
			return nil
		}
		buf, err := hevcconf.Config{
			VPS: [][]byte{track.VPS},
			SPS: [][]byte{track.SPS},
			PPS: [][]byte{track.PPS},
		}.Marshal()
		if err != nil {
			return err
		}
		return w.Write(&message.MsgVideo{
			ChunkStreamID:   message.VideoChunkStreamID,
			MessageStreamID: metadataStreamID,
			Tag: flv.VideoTag{
				Enhanced:   true,
				FrameType:  flv.VideoFrameKey,
				PacketType: flv.VideoPacketSequenceStart,
				Tracks:     []flv.VideoTrack{{FourCC: flv.FourCCHEVC, Data: buf}},
			},
		})

	default:
		return nil
	}
}

func writeAudioConfig(w *message.Writer, audioTrack format.Format) error {
	switch track := audioTrack.(type) {
	case *format.MPEG4Audio:
		if track.Config == nil {
			return nil
		}
		buf, err := track.Config.Marshal()
		if err != nil {
			return err
		}
		return w.Write(&message.MsgAudio{
			ChunkStreamID:   message.AudioChunkStreamID,
			MessageStreamID: metadataStreamID,
			Tag: flv.AudioTag{
				SoundFormat:   legacySoundAAC,
				SoundRate:     3,
				SoundSize:     1,
				SoundType:     1,
				AACPacketType: legacyAACConfig,
				LegacyBody:    buf,
			},
		})

	case *format.Opus:
		return w.Write(&message.MsgAudio{
			ChunkStreamID:   message.AudioChunkStreamID,
			MessageStreamID: metadataStreamID,
			Tag: flv.AudioTag{
				Enhanced:   true,
				PacketType: flv.AudioPacketSequenceStart,
				Tracks:     []flv.AudioTrack{{FourCC: flv.FourCCOpus}},
			},
		})

	default:
		return nil
	}
}
