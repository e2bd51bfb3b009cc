package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// tunnelTransport implements rtmpt/rtmpte: the same handshake and
// chunk stream as plain RTMP, carried as a sequence of HTTP POST
// request/response bodies instead of a raw socket, per §4.9 and
// §4.10's note that the handshake's S2/C2 echo check must be relaxed
// for this transport (Relaxed returns true). No HTTP framework in the
// example corpus is a better fit than net/http for this: the exchange
// is a handful of sequential POSTs, not routing or middleware.
type tunnelTransport struct {
	client   *http.Client
	baseURL  string
	clientID string
	seq      int

	mu        sync.Mutex
	totalRead uint64
	outbound  bytes.Buffer

	pr *io.PipeReader
	pw *io.PipeWriter

	closeOnce sync.Once
	closeErr  error
	idle      time.Duration
}

// DialTunnel opens an rtmpt/rtmpte session against baseURL (e.g.
// "http://host:80"), performing the open-session handshake
// (POST /fcs/ident2 in most servers, simplified here to /open/1) to
// obtain a client id, then starts the background flush loop.
func DialTunnel(baseURL string, idle time.Duration) (Transport, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Post(baseURL+"/open/1", "application/x-fcs", bytes.NewReader(nil))
	if err != nil {
		return nil, &rtmperrs.IoTransportError{Op: "tunnel open", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &rtmperrs.IoTransportError{Op: "tunnel open", Err: err}
	}

	pr, pw := io.Pipe()
	t := &tunnelTransport{
		client:   client,
		baseURL:  baseURL,
		clientID: string(bytes.TrimSpace(body)),
		pr:       pr,
		pw:       pw,
		idle:     idle,
	}

	go t.flushLoop()

	return t, nil
}

func (t *tunnelTransport) flushLoop() {
	ticker := time.NewTicker(t.idle)
	defer ticker.Stop()

	for range ticker.C {
		if err := t.poll(); err != nil {
			t.pw.CloseWithError(err) //nolint:errcheck
			return
		}
	}
}

func (t *tunnelTransport) poll() error {
	t.mu.Lock()
	payload := append([]byte(nil), t.outbound.Bytes()...)
	t.outbound.Reset()
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	url := fmt.Sprintf("%s/send/%s/%s", t.baseURL, t.clientID, strconv.Itoa(seq))
	resp, err := t.client.Post(url, "application/x-fcs", bytes.NewReader(payload))
	if err != nil {
		return &rtmperrs.IoTransportError{Op: "tunnel poll", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &rtmperrs.IoTransportError{Op: "tunnel poll", Err: err}
	}
	if len(body) == 0 {
		return nil
	}

	_, err = t.pw.Write(body)
	return err
}

func (t *tunnelTransport) Read(p []byte) (int, error) {
	n, err := t.pr.Read(p)
	t.mu.Lock()
	t.totalRead += uint64(n)
	t.mu.Unlock()
	return n, err
}

func (t *tunnelTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outbound.Write(p)
}

func (t *tunnelTransport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.pw.Close()
	})
	return t.closeErr
}

func (t *tunnelTransport) TotalBytesRead() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalRead
}

func (t *tunnelTransport) Relaxed() bool {
	return true
}
