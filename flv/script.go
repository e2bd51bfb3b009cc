package flv

import (
	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/rtmperrs"
	"github.com/notedit/rtmp/format/flv/flvio"
)

// ScriptTag is an FLV script-data ("onMetaData" and friends) tag body:
// an AMF0 or AMF3 command name followed by its argument values.
type ScriptTag struct {
	IsAMF3 bool
	Name   string
	Values []interface{}
}

func (t ScriptTag) tagType() TagType {
	if t.IsAMF3 {
		return TagTypeScriptAMF3
	}
	return TagTypeScriptAMF0
}

func (t ScriptTag) encodedValues() []interface{} {
	return append([]interface{}{t.Name}, t.Values...)
}

// EncodedSize returns the number of bytes Encode will write.
func (t ScriptTag) EncodedSize() uint32 {
	return uint32(len(flvio.FillAMF0ValsMalloc(t.encodedValues())))
}

// Encode writes the script tag body to dst, which must be at least
// EncodedSize() bytes.
func (t ScriptTag) Encode(dst []byte) error {
	encoded := flvio.FillAMF0ValsMalloc(t.encodedValues())
	copy(dst, encoded)
	return nil
}

// DecodeScriptTag decodes a script-data tag body of bodySize bytes from src.
func DecodeScriptTag(src bytesrc.Source, bodySize uint32, isAMF3 bool) (ScriptTag, error) {
	return decodeScriptTag(newBodyReader(src, bodySize), isAMF3)
}

func decodeScriptTag(r *bodyReader, isAMF3 bool) (ScriptTag, error) {
	body, err := r.rest()
	if err != nil {
		return ScriptTag{}, err
	}

	vals, err := flvio.ParseAMFVals(body, isAMF3)
	if err != nil {
		return ScriptTag{}, &rtmperrs.ProtocolError{Reason: "malformed AMF script data: " + err.Error()}
	}
	if len(vals) == 0 {
		return ScriptTag{}, &rtmperrs.ProtocolError{Reason: "empty script data tag"}
	}

	name, ok := vals[0].(string)
	if !ok {
		return ScriptTag{}, &rtmperrs.ProtocolError{Reason: "script data tag missing name"}
	}

	return ScriptTag{IsAMF3: isAMF3, Name: name, Values: vals[1:]}, nil
}

// TrackInfo is per-track codec metadata as carried inside a
// multitrack-aware onMetaData object, keyed by track name.
type TrackInfo struct {
	CodecID   float64
	DataRate  float64
	FrameRate float64
}

// ScriptOnMetaData is the typed projection of a well-formed onMetaData
// object. Fields default to their zero value when the source object
// omits them.
type ScriptOnMetaData struct {
	Duration        float64
	Width           float64
	Height          float64
	VideoCodecID    float64
	AudioCodecID    float64
	VideoDataRate   float64
	AudioDataRate   float64
	FrameRate       float64
	AudioSampleRate float64
	AudioSampleSize float64
	Stereo          bool
	Tracks          map[string]TrackInfo
}

// RawScriptData preserves every key of an onMetaData object verbatim,
// so a demuxer that only needs to forward metadata untouched never
// loses fields the typed projection doesn't know about.
type RawScriptData map[string]interface{}

// ParseOnMetaData projects a ScriptTag's ECMA-array payload into both
// a typed ScriptOnMetaData (for callers that want specific fields) and
// a RawScriptData map (for lossless passthrough). It returns an error
// only if the tag carries no object-shaped argument at all.
func ParseOnMetaData(tag ScriptTag) (*ScriptOnMetaData, RawScriptData, error) {
	if len(tag.Values) == 0 {
		return nil, nil, &rtmperrs.ProtocolError{Reason: "onMetaData tag carries no payload"}
	}

	amfMap, ok := tag.Values[0].(flvio.AMFMap)
	if !ok {
		return nil, nil, &rtmperrs.ProtocolError{Reason: "onMetaData payload is not an object"}
	}

	raw := make(RawScriptData, len(amfMap))
	for _, kv := range amfMap {
		raw[kv.K] = kv.V
	}

	out := &ScriptOnMetaData{
		Duration:        amfMap.GetFloat64("duration"),
		Width:           amfMap.GetFloat64("width"),
		Height:          amfMap.GetFloat64("height"),
		VideoCodecID:    amfMap.GetFloat64("videocodecid"),
		AudioCodecID:    amfMap.GetFloat64("audiocodecid"),
		VideoDataRate:   amfMap.GetFloat64("videodatarate"),
		AudioDataRate:   amfMap.GetFloat64("audiodatarate"),
		FrameRate:       amfMap.GetFloat64("framerate"),
		AudioSampleRate: amfMap.GetFloat64("audiosamplerate"),
		AudioSampleSize: amfMap.GetFloat64("audiosamplesize"),
	}
	if v := amfMap.GetV("stereo"); v != nil {
		if b, ok := v.(bool); ok {
			out.Stereo = b
		}
	}

	if tv := amfMap.GetV("trackinfo"); tv != nil {
		if list, ok := tv.([]interface{}); ok {
			tracks := make(map[string]TrackInfo, len(list))
			for i, entry := range list {
				m, ok := entry.(flvio.AMFMap)
				if !ok {
					continue
				}
				tracks[trackKey(m, i)] = TrackInfo{
					CodecID:   m.GetFloat64("codecid"),
					DataRate:  m.GetFloat64("datarate"),
					FrameRate: m.GetFloat64("framerate"),
				}
			}
			out.Tracks = tracks
		}
	}

	return out, raw, nil
}

func trackKey(m flvio.AMFMap, index int) string {
	if s := m.GetString("id"); s != "" {
		return s
	}
	return string(rune('0' + index))
}
