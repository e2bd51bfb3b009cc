// Package tracks bridges the codec parameters carried inside an
// onMetaData object and its following sequence-start/decoder-config
// tags to and from the RTP-oriented format.Format track descriptions
// gortsplib uses, so a publisher's tracks can be forwarded to, or
// assembled from, anything that already speaks the gortsplib format
// model.
package tracks

import (
	"errors"
	"time"

	"github.com/bluenviron/gortsplib/v4/pkg/format"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"

	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/flv/av1conf"
	"github.com/bluenviron/rtmplib/flv/avcconf"
	"github.com/bluenviron/rtmplib/flv/hevcconf"
	"github.com/bluenviron/rtmplib/rtmp/message"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Legacy FLV SoundFormat/CodecID values, per §3.
const (
	legacyCodecIDAVC = 7
	legacySoundMP3   = 2
	legacySoundAAC   = 10
	legacyAACConfig  = 0
	legacyAVCConfig  = 0
	legacyAVCNALUs   = 1
)

var errEmptyMetadata = errors.New("onMetaData carries no codec information")

func videoFormatFromAVCConfig(data []byte) (format.Format, error) {
	var conf avcconf.Config
	if err := conf.Unmarshal(data); err != nil {
		return nil, &rtmperrs.CodecError{Reason: "invalid AVC configuration: " + err.Error()}
	}
	if len(conf.SPS) == 0 || len(conf.PPS) == 0 {
		return nil, &rtmperrs.CodecError{Reason: "AVC configuration missing SPS/PPS"}
	}
	if typ := h264.NALUType(conf.SPS[0][0] & 0x1F); typ != h264.NALUTypeSPS {
		return nil, &rtmperrs.CodecError{Reason: "AVC configuration SPS has wrong NALU type"}
	}
	if typ := h264.NALUType(conf.PPS[0][0] & 0x1F); typ != h264.NALUTypePPS {
		return nil, &rtmperrs.CodecError{Reason: "AVC configuration PPS has wrong NALU type"}
	}
	return &format.H264{
		PayloadTyp:        96,
		SPS:               conf.SPS[0],
		PPS:               conf.PPS[0],
		PacketizationMode: 1,
	}, nil
}

func videoFormatFromHEVCConfig(data []byte) (format.Format, error) {
	var conf hevcconf.Config
	if err := conf.Unmarshal(data); err != nil {
		return nil, &rtmperrs.CodecError{Reason: "invalid HEVC configuration: " + err.Error()}
	}
	if len(conf.VPS) == 0 || len(conf.SPS) == 0 || len(conf.PPS) == 0 {
		return nil, &rtmperrs.CodecError{Reason: "HEVC configuration missing VPS/SPS/PPS"}
	}
	return &format.H265{
		PayloadTyp: 96,
		VPS:        conf.VPS[0],
		SPS:        conf.SPS[0],
		PPS:        conf.PPS[0],
	}, nil
}

func videoFormatFromAV1Config(data []byte) (format.Format, error) {
	var conf av1conf.Config
	if err := conf.Unmarshal(data); err != nil {
		return nil, &rtmperrs.CodecError{Reason: "invalid AV1 configuration: " + err.Error()}
	}
	// the sequence header embedded in ConfigOBUs carries profile/level/tier,
	// but format.AV1 only records them when present in an RTP fmtp line;
	// an RTMP-sourced track leaves them unset and lets the first frame speak.
	return &format.AV1{}, nil
}

func audioFormatFromAACConfig(data []byte) (format.Format, error) {
	var conf mpeg4audio.Config
	if err := conf.Unmarshal(data); err != nil {
		return nil, &rtmperrs.CodecError{Reason: "invalid AAC configuration: " + err.Error()}
	}
	return &format.MPEG4Audio{
		PayloadTyp:       96,
		Config:           &conf,
		SizeLength:       13,
		IndexLength:      3,
		IndexDeltaLength: 3,
	}, nil
}

// videoCodecExpected reports whether onMetaData's videocodecid field
// names a codec this package can bridge, and whether a video track is
// expected at all.
func videoCodecExpected(v interface{}) (expected bool, fourCC flv.FourCC, err error) {
	if v == nil {
		return false, 0, nil
	}
	switch vt := v.(type) {
	case float64:
		switch vt {
		case 0:
			return false, 0, nil
		case legacyCodecIDAVC:
			return true, flv.FourCCAVC, nil
		}
	case string:
		switch vt {
		case "avc1":
			return true, flv.FourCCAVC, nil
		case "hvc1":
			return true, flv.FourCCHEVC, nil
		case "av01":
			return true, flv.FourCCAV1, nil
		case "vp09", "vp08":
			return false, 0, &rtmperrs.CodecError{Reason: "VP8/VP9 video is not supported"}
		}
	}
	return false, 0, &rtmperrs.CodecError{Reason: "unsupported video codec identifier"}
}

func audioCodecExpected(v interface{}) (expected bool, legacyImmediate format.Format, fourCC flv.FourCC, err error) {
	if v == nil {
		return false, nil, 0, nil
	}
	switch vt := v.(type) {
	case float64:
		switch vt {
		case 0:
			return false, nil, 0, nil
		case legacySoundMP3:
			return true, &format.MPEG2Audio{}, 0, nil
		case legacySoundAAC:
			return true, nil, flv.FourCCAAC, nil
		}
	case string:
		switch vt {
		case "mp4a":
			return true, nil, flv.FourCCAAC, nil
		case "Opus":
			return true, nil, flv.FourCCOpus, nil
		case ".mp3":
			return true, &format.MPEG2Audio{}, 0, nil
		case "fLaC", "ac-3", "ec-3":
			return false, nil, 0, &rtmperrs.CodecError{Reason: "FLAC/AC-3/E-AC-3 audio is not supported"}
		}
	}
	return false, nil, 0, &rtmperrs.CodecError{Reason: "unsupported audio codec identifier"}
}

func readFromOnMetaData(r *message.Reader, payload []interface{}) (format.Format, format.Format, error) {
	if len(payload) != 1 {
		return nil, nil, &rtmperrs.ProtocolError{Reason: "invalid onMetaData payload"}
	}

	_, raw, err := flv.ParseOnMetaData(flv.ScriptTag{Name: "onMetaData", Values: payload})
	if err != nil {
		return nil, nil, err
	}

	var videoTrack, audioTrack format.Format
	var videoFourCC, audioFourCC flv.FourCC

	hasVideo, vFourCC, err := videoCodecExpected(raw["videocodecid"])
	if err != nil {
		return nil, nil, err
	}
	videoFourCC = vFourCC

	hasAudio, legacyAudio, aFourCC, err := audioCodecExpected(raw["audiocodecid"])
	if err != nil {
		return nil, nil, err
	}
	audioFourCC = aFourCC
	audioTrack = legacyAudio

	if !hasVideo && !hasAudio {
		return nil, nil, errEmptyMetadata
	}

	for {
		if (!hasVideo || videoTrack != nil) && (!hasAudio || audioTrack != nil) {
			return videoTrack, audioTrack, nil
		}

		msg, err := r.Read()
		if err != nil {
			return nil, nil, err
		}

		switch tmsg := msg.(type) {
		case *message.MsgVideo:
			if !hasVideo {
				continue
			}
			if videoTrack != nil {
				continue
			}
			videoTrack, err = videoTrackFromTag(tmsg.Tag, videoFourCC)
			if err != nil {
				return nil, nil, err
			}

		case *message.MsgAudio:
			if !hasAudio {
				continue
			}
			if audioTrack != nil {
				continue
			}
			audioTrack, err = audioTrackFromTag(tmsg.Tag, audioFourCC)
			if err != nil {
				return nil, nil, err
			}
		}
	}
}

// h265FromKeyframeNALUs recovers an H265 track from a keyframe access
// unit carrying raw VPS/SPS/PPS NAL units instead of a decoder-config
// tag, the shape OBS produced when it published HEVC through the
// legacy AVC video tag before it gained Enhanced RTMP support.
func h265FromKeyframeNALUs(legacyBody []byte) (format.Format, error) {
	nalus, err := flv.SplitNALUs(legacyBody)
	if err != nil {
		return nil, err
	}

	var vps, sps, pps []byte
	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		switch h265.NALUType((nalu[0] >> 1) & 0b111111) {
		case h265.NALUType_VPS_NUT:
			vps = nalu
		case h265.NALUType_SPS_NUT:
			sps = nalu
		case h265.NALUType_PPS_NUT:
			pps = nalu
		}
	}

	if vps == nil || sps == nil || pps == nil {
		return nil, nil
	}
	return &format.H265{PayloadTyp: 96, VPS: vps, SPS: sps, PPS: pps}, nil
}

func videoTrackFromTag(tag flv.VideoTag, expected flv.FourCC) (format.Format, error) {
	if !tag.Enhanced {
		if tag.CodecID == legacyCodecIDAVC && tag.AVCPacketType == legacyAVCConfig {
			return videoFormatFromAVCConfig(tag.LegacyBody)
		}
		// OBS < 29.1 declares videocodecid 7 (AVC) yet sends a keyframe
		// access unit whose NAL units are actually HEVC VPS/SPS/PPS/slices.
		if expected == flv.FourCCAVC && tag.AVCPacketType == legacyAVCNALUs &&
			tag.FrameType == flv.VideoFrameKey {
			if track, err := h265FromKeyframeNALUs(tag.LegacyBody); err == nil && track != nil {
				return track, nil
			}
		}
		return nil, nil
	}

	if tag.PacketType != flv.VideoPacketSequenceStart || len(tag.Tracks) == 0 {
		return nil, nil
	}
	tr := tag.Tracks[0]
	if tr.FourCC != expected {
		return nil, nil
	}

	switch tr.FourCC {
	case flv.FourCCAVC:
		return videoFormatFromAVCConfig(tr.Data)
	case flv.FourCCHEVC:
		return videoFormatFromHEVCConfig(tr.Data)
	case flv.FourCCAV1:
		return videoFormatFromAV1Config(tr.Data)
	default:
		return nil, &rtmperrs.CodecError{Reason: "unsupported enhanced video FourCC " + tr.FourCC.String()}
	}
}

func audioTrackFromTag(tag flv.AudioTag, expected flv.FourCC) (format.Format, error) {
	if !tag.Enhanced {
		if tag.SoundFormat == legacySoundAAC && tag.AACPacketType == legacyAACConfig {
			return audioFormatFromAACConfig(tag.LegacyBody)
		}
		return nil, nil
	}

	if tag.PacketType != flv.AudioPacketSequenceStart || len(tag.Tracks) == 0 {
		return nil, nil
	}
	tr := tag.Tracks[0]
	if tr.FourCC != expected {
		return nil, nil
	}

	switch tr.FourCC {
	case flv.FourCCAAC:
		return audioFormatFromAACConfig(tr.Data)
	case flv.FourCCOpus:
		channels := 2
		return &format.Opus{PayloadTyp: 96, SampleRate: 48000, ChannelCount: channels}, nil
	default:
		return nil, &rtmperrs.CodecError{Reason: "unsupported enhanced audio FourCC " + tr.FourCC.String()}
	}
}

// Read reads the @setDataFrame/onMetaData object (or, failing that,
// up to one second of media in search of decoder-config tags) a
// publisher sends before its first frame, and returns the video and
// audio tracks it describes. Either return value may be nil if the
// publisher carries no track of that kind.
func Read(r *message.Reader) (format.Format, format.Format, error) {
	msg, err := nextRelevantMessage(r)
	if err != nil {
		return nil, nil, err
	}

	if data, ok := msg.(*message.MsgDataAMF0); ok && len(data.Payload) >= 1 {
		payload := data.Payload
		if s, ok := payload[0].(string); ok && s == "@setDataFrame" {
			payload = payload[1:]
		}
		if len(payload) >= 1 {
			if s, ok := payload[0].(string); ok && s == "onMetaData" {
				videoTrack, audioTrack, err := readFromOnMetaData(r, payload[1:])
				if err != nil {
					if errors.Is(err, errEmptyMetadata) {
						msg, err := r.Read()
						if err != nil {
							return nil, nil, err
						}
						return readFromMessages(r, msg)
					}
					return nil, nil, err
				}
				return videoTrack, audioTrack, nil
			}
		}
	}

	return readFromMessages(r, msg)
}

// readFromMessages falls back to scanning up to one second of media
// for decoder-config tags when a publisher sends no onMetaData at all.
// Codecs whose decoder config is carried by Enhanced RTMP's
// sequence-start packet are skipped here, since without onMetaData
// there is no FourCC to distinguish a sequence-start payload from a
// keyframe of an unknown codec.
func readFromMessages(r *message.Reader, msg message.Message) (format.Format, format.Format, error) {
	var startTime *time.Duration
	var videoTrack, audioTrack format.Format

	for {
		switch tmsg := msg.(type) {
		case *message.MsgVideo:
			ts := msTimestampDuration(tmsg.Timestamp)
			if startTime == nil {
				startTime = &ts
			}
			if videoTrack == nil && !tmsg.Tag.Enhanced &&
				tmsg.Tag.CodecID == legacyCodecIDAVC && tmsg.Tag.AVCPacketType == legacyAVCConfig {
				var err error
				videoTrack, err = videoFormatFromAVCConfig(tmsg.Tag.LegacyBody)
				if err != nil {
					return nil, nil, err
				}
			}
			if videoTrack != nil && audioTrack != nil {
				return videoTrack, audioTrack, nil
			}
			if startTime != nil && ts-*startTime >= time.Second {
				return videoTrack, audioTrack, checkAnyTrack(videoTrack, audioTrack)
			}

		case *message.MsgAudio:
			ts := msTimestampDuration(tmsg.Timestamp)
			if startTime == nil {
				startTime = &ts
			}
			if audioTrack == nil && !tmsg.Tag.Enhanced &&
				tmsg.Tag.SoundFormat == legacySoundAAC && tmsg.Tag.AACPacketType == legacyAACConfig {
				var err error
				audioTrack, err = audioFormatFromAACConfig(tmsg.Tag.LegacyBody)
				if err != nil {
					return nil, nil, err
				}
			}
			if videoTrack != nil && audioTrack != nil {
				return videoTrack, audioTrack, nil
			}
			if startTime != nil && ts-*startTime >= time.Second {
				return videoTrack, audioTrack, checkAnyTrack(videoTrack, audioTrack)
			}
		}

		var err error
		msg, err = r.Read()
		if err != nil {
			return nil, nil, err
		}
	}
}

func checkAnyTrack(video, audio format.Format) error {
	if video == nil && audio == nil {
		return &rtmperrs.ProtocolError{Reason: "no tracks found in the first second of media"}
	}
	return nil
}

func msTimestampDuration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// nextRelevantMessage skips housekeeping messages (onStatus replies,
// |RtmpSampleAccess markers) a player commonly sends right after play,
// and returns the first message a track reader actually cares about.
func nextRelevantMessage(r *message.Reader) (message.Message, error) {
	for {
		msg, err := r.Read()
		if err != nil {
			return nil, err
		}

		if cmd, ok := msg.(*message.MsgCommandAMF0); ok && cmd.Name == "onStatus" {
			continue
		}
		if data, ok := msg.(*message.MsgDataAMF0); ok && len(data.Payload) >= 1 {
			if s, ok := data.Payload[0].(string); ok && s == "|RtmpSampleAccess" {
				continue
			}
		}

		return msg, nil
	}
}
