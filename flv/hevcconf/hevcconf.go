// Package hevcconf parses and generates HEVCDecoderConfigurationRecords,
// the sequence-header payload carried by HEVC sequence-start tags.
package hevcconf

import (
	"bytes"

	gomp4 "github.com/abema/go-mp4"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// NAL unit types carried in a configuration record's NAL arrays.
const (
	NALUTypeVPS = 32
	NALUTypeSPS = 33
	NALUTypePPS = 34
)

// Config is an HEVCDecoderConfigurationRecord, projected from
// go-mp4's HvcC box into the VPS/SPS/PPS shape this module's callers
// actually need.
type Config struct {
	GeneralProfileIDC     uint8
	GeneralLevelIDC       uint8
	ChromaFormatIDC       uint8
	LengthSizeMinusOne    uint8

	VPS [][]byte
	SPS [][]byte
	PPS [][]byte
}

// Marshal encodes the Config into its wire bytes via go-mp4's HvcC box.
func (c Config) Marshal() ([]byte, error) {
	if len(c.SPS) == 0 || len(c.PPS) == 0 {
		return nil, &rtmperrs.CodecError{Reason: "HEVC configuration record requires at least one SPS and PPS"}
	}

	box := &gomp4.HvcC{
		ConfigurationVersion: 1,
		GeneralProfileIdc:    c.GeneralProfileIDC,
		GeneralLevelIdc:      c.GeneralLevelIDC,
		ChromaFormatIdc:      c.ChromaFormatIDC,
		LengthSizeMinusOne:   c.LengthSizeMinusOne,
	}

	appendArray := func(naluType uint8, nalus [][]byte) {
		if len(nalus) == 0 {
			return
		}
		arr := gomp4.HEVCNaluArray{
			NaluType: naluType,
			NumNalus: uint16(len(nalus)),
		}
		for _, n := range nalus {
			arr.Nalus = append(arr.Nalus, gomp4.HEVCNalu{Length: uint16(len(n)), NALUnit: n})
		}
		box.NaluArrays = append(box.NaluArrays, arr)
	}
	appendArray(NALUTypeVPS, c.VPS)
	appendArray(NALUTypeSPS, c.SPS)
	appendArray(NALUTypePPS, c.PPS)
	box.NumOfArrays = uint8(len(box.NaluArrays))

	var buf bytes.Buffer
	_, err := gomp4.Marshal(&buf, box, gomp4.Context{})
	if err != nil {
		return nil, &rtmperrs.CodecError{Reason: "failed to encode HEVC configuration record: " + err.Error()}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a Config from its wire bytes via go-mp4's HvcC box.
func (c *Config) Unmarshal(buf []byte) error {
	var box gomp4.HvcC
	_, err := gomp4.Unmarshal(bytes.NewReader(buf), uint64(len(buf)), &box, gomp4.Context{})
	if err != nil {
		return &rtmperrs.CodecError{Reason: "invalid HEVC configuration record: " + err.Error()}
	}

	c.GeneralProfileIDC = box.GeneralProfileIdc
	c.GeneralLevelIDC = box.GeneralLevelIdc
	c.ChromaFormatIDC = box.ChromaFormatIdc
	c.LengthSizeMinusOne = box.LengthSizeMinusOne
	c.VPS = findNALUs(box.NaluArrays, NALUTypeVPS)
	c.SPS = findNALUs(box.NaluArrays, NALUTypeSPS)
	c.PPS = findNALUs(box.NaluArrays, NALUTypePPS)

	if len(c.SPS) == 0 || len(c.PPS) == 0 {
		return &rtmperrs.CodecError{Reason: "HEVC configuration record missing SPS or PPS"}
	}
	return nil
}

func findNALUs(arrays []gomp4.HEVCNaluArray, naluType uint8) [][]byte {
	for _, a := range arrays {
		if a.NaluType == naluType {
			out := make([][]byte, len(a.Nalus))
			for i, n := range a.Nalus {
				out[i] = n.NALUnit
			}
			return out
		}
	}
	return nil
}
