package avcconf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigRoundTripBaseline(t *testing.T) {
	c := Config{
		SPS: [][]byte{{0x67, 0x42, 0x00, 0x1E, 0xAA, 0xBB}},
		PPS: [][]byte{{0x68, 0xCE, 0x3C, 0x80}},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	var out Config
	require.NoError(t, out.Unmarshal(buf))
	require.Equal(t, c.SPS, out.SPS)
	require.Equal(t, c.PPS, out.PPS)
	require.Equal(t, uint8(0x42), out.ProfileIndication)
	require.Equal(t, uint8(0x1E), out.LevelIndication)
}

func TestConfigRoundTripHighProfile(t *testing.T) {
	c := Config{
		ProfileIndication:    100,
		ProfileCompatibility: 0,
		LevelIndication:      0x1F,
		SPS:                  [][]byte{{0x67, 100, 0, 0x1F}},
		PPS:                  [][]byte{{0x68, 1, 2, 3}},
		ChromaFormat:         1,
		BitDepthLumaMinus8:   2,
		BitDepthChromaMinus8: 2,
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	var out Config
	require.NoError(t, out.Unmarshal(buf))
	require.Equal(t, uint8(1), out.ChromaFormat)
	require.Equal(t, uint8(2), out.BitDepthLumaMinus8)
}

func TestConfigUnmarshalRejectsTruncated(t *testing.T) {
	var out Config
	require.Error(t, out.Unmarshal([]byte{1, 2, 3}))
}

func TestConfigMarshalRequiresSPSAndPPS(t *testing.T) {
	_, err := Config{}.Marshal()
	require.Error(t, err)
}
