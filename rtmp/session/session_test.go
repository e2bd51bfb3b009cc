package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtmplib/rtmp/transport"
)

func TestClientServerPublishHandshake(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	serverSessCh := make(chan *Session, 1)
	serverErrCh := make(chan error, 1)

	go func() {
		tr, err := ln.Accept()
		if err != nil {
			serverErrCh <- err
			return
		}

		srv, err := Accept(tr, Config{}, Handlers{
			OnPublish: func(app, streamKey, publishType string) bool {
				return streamKey == "mystream"
			},
		}, nil)
		if err != nil {
			serverErrCh <- err
			return
		}
		serverSessCh <- srv
	}()

	cli, err := Dial("rtmp://"+ln.Addr().String()+"/live/mystream", Config{}, Handlers{}, nil)
	require.NoError(t, err)
	defer cli.Close(nil) //nolint:errcheck

	require.NoError(t, cli.CreateStream())
	require.Equal(t, StateStreamCreated, cli.State())

	require.NoError(t, cli.Publish("mystream", "live"))
	require.Equal(t, StatePublishing, cli.State())

	select {
	case srv := <-serverSessCh:
		defer srv.Close(nil) //nolint:errcheck
		require.Equal(t, StatePublishing, srv.State())
	case err := <-serverErrCh:
		t.Fatalf("server session failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server session")
	}
}

func TestClientServerPublishRejected(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	go func() {
		tr, err := ln.Accept()
		if err != nil {
			return
		}
		Accept(tr, Config{}, Handlers{ //nolint:errcheck
			OnPublish: func(app, streamKey, publishType string) bool {
				return false
			},
		}, nil)
	}()

	cli, err := Dial("rtmp://"+ln.Addr().String()+"/live/mystream", Config{}, Handlers{}, nil)
	require.NoError(t, err)
	defer cli.Close(nil) //nolint:errcheck

	require.NoError(t, cli.CreateStream())

	err = cli.Publish("mystream", "live")
	require.Error(t, err)
	require.Equal(t, StateClosing, cli.State())
}

func TestFrameDropPolicy(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(10 * time.Second)
	s := &Session{
		cfg: Config{
			TooLateDropTimeoutMs: 1000,
			Clock:                func() time.Time { return now },
		},
		startWall: start,
	}

	require.True(t, s.shouldDrop(5*time.Second))
	require.False(t, s.shouldDrop(9500*time.Millisecond))
}
