// Package av1conf parses and generates AV1CodecConfigurationRecords
// (the ISO-BMFF "av1C" box), the sequence-header payload carried by
// AV1 sequence-start tags.
package av1conf

import (
	"bytes"

	gomp4 "github.com/abema/go-mp4"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/av1"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Config is an AV1CodecConfigurationRecord.
type Config struct {
	SeqProfile    uint8
	SeqLevelIdx0  uint8
	SeqTier0      uint8
	HighBitdepth  uint8
	TwelveBit     uint8
	Monochrome    uint8
	ChromaSubsamplingX uint8
	ChromaSubsamplingY uint8
	ConfigOBUs    []byte
}

// Marshal encodes the Config into its wire bytes via go-mp4's Av1C box.
func (c Config) Marshal() ([]byte, error) {
	box := &gomp4.Av1C{
		Marker:              1,
		Version:             1,
		SeqProfile:          c.SeqProfile,
		SeqLevelIdx0:        c.SeqLevelIdx0,
		SeqTier0:            c.SeqTier0,
		HighBitdepth:        c.HighBitdepth,
		TwelveBit:           c.TwelveBit,
		Monochrome:          c.Monochrome,
		ChromaSubsamplingX:  c.ChromaSubsamplingX,
		ChromaSubsamplingY:  c.ChromaSubsamplingY,
		ConfigOBUs:          c.ConfigOBUs,
	}

	var buf bytes.Buffer
	_, err := gomp4.Marshal(&buf, box, gomp4.Context{})
	if err != nil {
		return nil, &rtmperrs.CodecError{Reason: "failed to encode AV1 configuration record: " + err.Error()}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a Config from its wire bytes via go-mp4's Av1C box,
// validating that ConfigOBUs parses as a well-formed AV1 bitstream.
func (c *Config) Unmarshal(buf []byte) error {
	var box gomp4.Av1C
	_, err := gomp4.Unmarshal(bytes.NewReader(buf), uint64(len(buf)), &box, gomp4.Context{})
	if err != nil {
		return &rtmperrs.CodecError{Reason: "invalid AV1 configuration record: " + err.Error()}
	}

	if _, err := av1.BitstreamUnmarshal(box.ConfigOBUs, false); err != nil {
		return &rtmperrs.CodecError{Reason: "invalid AV1 sequence header: " + err.Error()}
	}

	c.SeqProfile = box.SeqProfile
	c.SeqLevelIdx0 = box.SeqLevelIdx0
	c.SeqTier0 = box.SeqTier0
	c.HighBitdepth = box.HighBitdepth
	c.TwelveBit = box.TwelveBit
	c.Monochrome = box.Monochrome
	c.ChromaSubsamplingX = box.ChromaSubsamplingX
	c.ChromaSubsamplingY = box.ChromaSubsamplingY
	c.ConfigOBUs = box.ConfigOBUs
	return nil
}
