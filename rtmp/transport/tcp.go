package transport

import (
	"net"
	"time"
)

// tcpTransport wraps a plain net.Conn carrying an RTMP byte stream.
type tcpTransport struct {
	conn      net.Conn
	totalRead uint64
}

// DialTCP connects to addr (host:port) over plain TCP.
func DialTCP(addr string, timeout time.Duration) (Transport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &tcpTransport{conn: conn}, nil
}

// NewTCP wraps an already-accepted net.Conn (server side).
func NewTCP(conn net.Conn) Transport {
	return &tcpTransport{conn: conn}
}

func (t *tcpTransport) Read(p []byte) (int, error) {
	n, err := t.conn.Read(p)
	t.totalRead += uint64(n)
	return n, err
}

func (t *tcpTransport) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) TotalBytesRead() uint64 {
	return t.totalRead
}

func (t *tcpTransport) Relaxed() bool {
	return false
}

// Listener accepts inbound Transports on a plain TCP listener.
type Listener struct {
	ln net.Listener
}

// Listen opens a TCP listener on addr (host:port, or ":port").
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks until an inbound connection arrives, wrapping it as a
// Transport.
func (l *Listener) Accept() (Transport, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewTCP(conn), nil
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}
