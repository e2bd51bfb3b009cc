package hevcconf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	c := Config{
		GeneralProfileIDC:  1,
		GeneralLevelIDC:    120,
		ChromaFormatIDC:    1,
		LengthSizeMinusOne: 3,
		VPS:                [][]byte{{0x40, 0x01}},
		SPS:                [][]byte{{0x42, 0x01, 0x02}},
		PPS:                [][]byte{{0x44, 0x03}},
	}

	buf, err := c.Marshal()
	require.NoError(t, err)

	var out Config
	require.NoError(t, out.Unmarshal(buf))
	require.Equal(t, c.VPS, out.VPS)
	require.Equal(t, c.SPS, out.SPS)
	require.Equal(t, c.PPS, out.PPS)
	require.Equal(t, c.GeneralLevelIDC, out.GeneralLevelIDC)
	require.Equal(t, c.LengthSizeMinusOne, out.LengthSizeMinusOne)
}

func TestConfigUnmarshalRejectsGarbage(t *testing.T) {
	var out Config
	require.Error(t, out.Unmarshal([]byte{1, 2, 3}))
}

func TestConfigMarshalRequiresSPSAndPPS(t *testing.T) {
	_, err := Config{}.Marshal()
	require.Error(t, err)
}
