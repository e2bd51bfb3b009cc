package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}
}

func TestTLSTransportRoundTrip(t *testing.T) {
	cert := selfSignedCert(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	acceptCh := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		acceptCh <- c
	}()

	rawClient, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	rawServer := <-acceptCh

	serverConn := tls.Server(rawServer, &tls.Config{Certificates: []tls.Certificate{cert}})
	clientConn := tls.Client(rawClient, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec

	handshakeErrCh := make(chan error, 1)
	go func() { handshakeErrCh <- serverConn.Handshake() }()
	require.NoError(t, clientConn.Handshake())
	require.NoError(t, <-handshakeErrCh)

	client := &tlsTransport{conn: clientConn}
	server := &tlsTransport{conn: serverConn}
	defer client.Close() //nolint:errcheck
	defer server.Close() //nolint:errcheck

	require.False(t, client.Relaxed())

	n, err := client.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 5)
	_, err = io.ReadFull(server, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
	require.Equal(t, uint64(5), server.TotalBytesRead())
}
