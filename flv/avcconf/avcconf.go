// Package avcconf parses and generates AVCDecoderConfigurationRecords,
// the sequence-header payload carried by AVC sequence-start tags.
package avcconf

import "github.com/bluenviron/rtmplib/rtmperrs"

func isHighProfile(profileIndication uint8) bool {
	switch profileIndication {
	case 100, 110, 122, 144:
		return true
	}
	return false
}

// Config is an AVCDecoderConfigurationRecord: one or more SPS/PPS NAL
// units plus the profile/level fields a decoder needs before the
// first coded frame arrives.
type Config struct {
	ProfileIndication    uint8
	ProfileCompatibility uint8
	LevelIndication      uint8
	LengthSizeMinusOne   uint8
	SPS                  [][]byte
	PPS                  [][]byte

	// High-profile-only fields (ProfileIndication 100, 110, 122, 144);
	// zero values otherwise.
	ChromaFormat         uint8
	BitDepthLumaMinus8   uint8
	BitDepthChromaMinus8 uint8
}

// Unmarshal decodes a Config from its wire bytes.
func (c *Config) Unmarshal(buf []byte) error {
	if len(buf) < 6 {
		return &rtmperrs.CodecError{Reason: "AVC configuration record too short"}
	}
	if buf[0] != 1 {
		return &rtmperrs.CodecError{Reason: "unsupported AVC configuration version"}
	}

	c.ProfileIndication = buf[1]
	c.ProfileCompatibility = buf[2]
	c.LevelIndication = buf[3]
	c.LengthSizeMinusOne = buf[4] & 0x03

	pos := 6
	numSPS := int(buf[5] & 0x1F)
	c.SPS = nil
	for i := 0; i < numSPS; i++ {
		nalu, next, err := readLengthPrefixed(buf, pos)
		if err != nil {
			return err
		}
		c.SPS = append(c.SPS, nalu)
		pos = next
	}

	if pos >= len(buf) {
		return &rtmperrs.CodecError{Reason: "AVC configuration record missing PPS count"}
	}
	numPPS := int(buf[pos])
	pos++
	c.PPS = nil
	for i := 0; i < numPPS; i++ {
		nalu, next, err := readLengthPrefixed(buf, pos)
		if err != nil {
			return err
		}
		c.PPS = append(c.PPS, nalu)
		pos = next
	}

	if isHighProfile(c.ProfileIndication) && pos+4 <= len(buf) {
		c.ChromaFormat = buf[pos] & 0x03
		c.BitDepthLumaMinus8 = buf[pos+1] & 0x07
		c.BitDepthChromaMinus8 = buf[pos+2] & 0x07
		// numOfSequenceParameterSetExt (buf[pos+3]) and any extension SPS
		// NALUs are intentionally ignored: no decoder in this module's
		// scope consumes the scalable/multiview extension.
	}

	if len(c.SPS) == 0 || len(c.PPS) == 0 {
		return &rtmperrs.CodecError{Reason: "AVC configuration record missing SPS or PPS"}
	}

	return nil
}

func readLengthPrefixed(buf []byte, pos int) ([]byte, int, error) {
	if pos+2 > len(buf) {
		return nil, 0, &rtmperrs.CodecError{Reason: "truncated AVC configuration record"}
	}
	n := int(buf[pos])<<8 | int(buf[pos+1])
	pos += 2
	if pos+n > len(buf) {
		return nil, 0, &rtmperrs.CodecError{Reason: "truncated AVC configuration record"}
	}
	return buf[pos : pos+n], pos + n, nil
}

// Marshal encodes the Config into its wire bytes. The first SPS
// supplies ProfileIndication/ProfileCompatibility/LevelIndication
// directly from bytes 1-3 if those fields are left unset.
func (c Config) Marshal() ([]byte, error) {
	if len(c.SPS) == 0 || len(c.PPS) == 0 {
		return nil, &rtmperrs.CodecError{Reason: "AVC configuration record requires at least one SPS and PPS"}
	}

	profileIndication := c.ProfileIndication
	profileCompat := c.ProfileCompatibility
	levelIndication := c.LevelIndication
	if profileIndication == 0 && len(c.SPS[0]) >= 4 {
		profileIndication = c.SPS[0][1]
		profileCompat = c.SPS[0][2]
		levelIndication = c.SPS[0][3]
	}

	size := 6
	for _, n := range c.SPS {
		size += 2 + len(n)
	}
	size++ // numOfPictureParameterSets
	for _, n := range c.PPS {
		size += 2 + len(n)
	}
	if isHighProfile(profileIndication) {
		size += 4
	}

	buf := make([]byte, size)
	buf[0] = 1
	buf[1] = profileIndication
	buf[2] = profileCompat
	buf[3] = levelIndication
	buf[4] = 0xFC | c.LengthSizeMinusOne&0x03
	buf[5] = 0xE0 | uint8(len(c.SPS))&0x1F

	pos := 6
	for _, n := range c.SPS {
		pos = writeLengthPrefixed(buf, pos, n)
	}

	buf[pos] = uint8(len(c.PPS))
	pos++
	for _, n := range c.PPS {
		pos = writeLengthPrefixed(buf, pos, n)
	}

	if isHighProfile(profileIndication) {
		buf[pos] = 0xFC | c.ChromaFormat&0x03
		buf[pos+1] = 0xF8 | c.BitDepthLumaMinus8&0x07
		buf[pos+2] = 0xF8 | c.BitDepthChromaMinus8&0x07
		buf[pos+3] = 0 // numOfSequenceParameterSetExt
	}

	return buf, nil
}

func writeLengthPrefixed(buf []byte, pos int, nalu []byte) int {
	buf[pos] = byte(len(nalu) >> 8)
	buf[pos+1] = byte(len(nalu))
	pos += 2
	copy(buf[pos:], nalu)
	return pos + len(nalu)
}
