package transport

import (
	"crypto/tls"
	"net"
	"time"
)

// tlsTransport wraps a *tls.Conn carrying an RTMP byte stream over
// rtmps://.
type tlsTransport struct {
	conn      *tls.Conn
	totalRead uint64
}

// DialTLS connects to addr over TCP and performs a TLS handshake.
// serverName is used for certificate verification (SNI); pass "" to
// derive it from addr's host portion.
func DialTLS(addr string, serverName string, timeout time.Duration) (Transport, error) {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		ServerName: serverName,
	})
	if err != nil {
		return nil, err
	}
	return &tlsTransport{conn: conn}, nil
}

func (t *tlsTransport) Read(p []byte) (int, error) {
	n, err := t.conn.Read(p)
	t.totalRead += uint64(n)
	return n, err
}

func (t *tlsTransport) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

func (t *tlsTransport) Close() error {
	return t.conn.Close()
}

func (t *tlsTransport) TotalBytesRead() uint64 {
	return t.totalRead
}

func (t *tlsTransport) Relaxed() bool {
	return false
}

// TLSListener accepts inbound rtmps:// Transports using a server
// certificate pair loaded the way internal/servertls.New does.
type TLSListener struct {
	ln net.Listener
}

// ListenTLS loads certFile/keyFile with tls.LoadX509KeyPair and opens
// a TLS listener on addr.
func ListenTLS(addr, certFile, keyFile string) (*TLSListener, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}

	ln, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
	})
	if err != nil {
		return nil, err
	}
	return &TLSListener{ln: ln}, nil
}

// Accept blocks until an inbound TLS connection arrives and completes
// its handshake, wrapping it as a Transport.
func (l *TLSListener) Accept() (Transport, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		conn.Close() //nolint:errcheck
		return nil, &net.OpError{Op: "accept", Err: errNotTLS}
	}
	return &tlsTransport{conn: tlsConn}, nil
}

// Close stops accepting new connections.
func (l *TLSListener) Close() error {
	return l.ln.Close()
}

// Addr returns the listener's bound address.
func (l *TLSListener) Addr() net.Addr {
	return l.ln.Addr()
}

var errNotTLS = tlsConnTypeError("accepted connection is not a *tls.Conn")

type tlsConnTypeError string

func (e tlsConnTypeError) Error() string { return string(e) }
