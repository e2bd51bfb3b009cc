package rtmpurl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	u, err := Parse("rtmp://example.com/live/mystream")
	require.NoError(t, err)
	require.Equal(t, SchemeRTMP, u.Scheme)
	require.Equal(t, "example.com:1935", u.Host)
	require.Equal(t, "live", u.App)
	require.Equal(t, "mystream", u.Stream)
	require.Equal(t, "rtmp://example.com:1935/live", u.TCURL)
	require.False(t, u.UsesTLS())
	require.False(t, u.IsTunneled())
}

func TestParseExplicitPort(t *testing.T) {
	u, err := Parse("rtmps://example.com:9443/app/sub/key?token=abc")
	require.NoError(t, err)
	require.Equal(t, "example.com:9443", u.Host)
	require.Equal(t, "app/sub", u.App)
	require.Equal(t, "key?token=abc", u.Stream)
	require.True(t, u.UsesTLS())
}

func TestParseTunneledDefaultPort(t *testing.T) {
	u, err := Parse("rtmpt://example.com/live/key")
	require.NoError(t, err)
	require.Equal(t, "example.com:80", u.Host)
	require.True(t, u.IsTunneled())
	require.False(t, u.UsesTLS())
}

func TestParseUnsupportedScheme(t *testing.T) {
	_, err := Parse("http://example.com/live/key")
	require.Error(t, err)
}

func TestParseMissingHost(t *testing.T) {
	_, err := Parse("rtmp:///live/key")
	require.Error(t, err)
}
