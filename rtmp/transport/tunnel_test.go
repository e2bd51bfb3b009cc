package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// rtmptStub is a minimal rtmpt/rtmpte server: it hands out a fixed
// client id on open and, on the first /send poll, echoes back a fixed
// reply exactly once.
type rtmptStub struct {
	mu     sync.Mutex
	served bool
}

func (s *rtmptStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/open/"):
		_, _ = w.Write([]byte("client-1\n"))

	case strings.HasPrefix(r.URL.Path, "/send/"):
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.served {
			s.served = true
			_, _ = w.Write([]byte("reply-bytes"))
		}
	}
}

func TestTunnelTransportRoundTrip(t *testing.T) {
	stub := &rtmptStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	tr, err := DialTunnel(srv.URL, 20*time.Millisecond)
	require.NoError(t, err)
	defer tr.Close() //nolint:errcheck

	require.True(t, tr.Relaxed())

	n, err := tr.Write([]byte("outbound"))
	require.NoError(t, err)
	require.Equal(t, 8, n)

	buf := make([]byte, len("reply-bytes"))
	_, err = io.ReadFull(tr, buf)
	require.NoError(t, err)
	require.Equal(t, "reply-bytes", string(buf))
	require.Equal(t, uint64(len(buf)), tr.TotalBytesRead())
}
