package flv

import (
	"testing"

	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/notedit/rtmp/format/flv/flvio"
	"github.com/stretchr/testify/require"
)

func TestScriptTagRoundTrip(t *testing.T) {
	tag := ScriptTag{
		Name: "onMetaData",
		Values: []interface{}{
			flvio.AMFMap{
				{K: "duration", V: float64(12.5)},
				{K: "width", V: float64(1920)},
			},
		},
	}

	buf := make([]byte, tag.EncodedSize())
	require.NoError(t, tag.Encode(buf))

	out, err := DecodeScriptTag(bytesrc.NewBytes(buf), uint32(len(buf)), false)
	require.NoError(t, err)
	require.Equal(t, "onMetaData", out.Name)
}

func TestParseOnMetaData(t *testing.T) {
	tag := ScriptTag{
		Name: "onMetaData",
		Values: []interface{}{
			flvio.AMFMap{
				{K: "duration", V: float64(5)},
				{K: "width", V: float64(640)},
				{K: "height", V: float64(480)},
				{K: "stereo", V: true},
			},
		},
	}

	typed, raw, err := ParseOnMetaData(tag)
	require.NoError(t, err)
	require.Equal(t, float64(5), typed.Duration)
	require.Equal(t, float64(640), typed.Width)
	require.True(t, typed.Stereo)
	require.Equal(t, float64(480), raw["height"])
}

func TestParseOnMetaDataRequiresObject(t *testing.T) {
	_, _, err := ParseOnMetaData(ScriptTag{Name: "onMetaData"})
	require.Error(t, err)
}
