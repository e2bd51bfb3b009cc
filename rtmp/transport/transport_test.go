package transport

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTCPRoundTrip(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close() //nolint:errcheck
		buf := make([]byte, 5)
		io.ReadFull(conn, buf) //nolint:errcheck
		conn.Write(buf)        //nolint:errcheck
	}()

	conn, err := DialTCP(ln.Addr().String(), 0)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	_, err = conn.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
	require.False(t, conn.Relaxed())
	require.EqualValues(t, 5, conn.TotalBytesRead())

	<-serverDone
}
