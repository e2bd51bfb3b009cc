package session

import (
	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/logger"
	"github.com/bluenviron/rtmplib/rtmp/message"
	"github.com/bluenviron/rtmplib/rtmp/rtmpurl"
	"github.com/bluenviron/rtmplib/rtmp/transaction"
	"github.com/bluenviron/rtmplib/rtmp/transport"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Dial opens a client-side Session against u: dials the appropriate
// transport (TCP, TLS, or tunneled HTTP, chosen by scheme), performs
// the RTMP handshake, and sends connect as an explicit state machine
// that awaits the connect transaction's reply asynchronously.
func Dial(rawURL string, cfg Config, h Handlers, log *logger.Logger) (*Session, error) {
	u, err := rtmpurl.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	tr, err := dialTransport(u)
	if err != nil {
		return nil, err
	}

	s := newSession(RoleClient, tr, cfg, h, log)

	if err := s.handshake(!u.IsTunneled()); err != nil {
		s.Close(err) //nolint:errcheck
		return nil, err
	}

	go s.readLoop()

	if err := s.clientConnect(u); err != nil {
		s.Close(err) //nolint:errcheck
		return nil, err
	}

	return s, nil
}

func dialTransport(u rtmpurl.URL) (transport.Transport, error) {
	switch {
	case u.IsTunneled():
		scheme := "http"
		if u.UsesTLS() {
			scheme = "https"
		}
		return transport.DialTunnel(scheme+"://"+u.Host, tunnelPollInterval)
	case u.UsesTLS():
		return transport.DialTLS(u.Host, "", 0)
	default:
		return transport.DialTCP(u.Host, 0)
	}
}

func (s *Session) clientConnect(u rtmpurl.URL) error {
	txnID := s.allocateTxnID()
	wait := s.coord.Register(transaction.IDKey(txnID))

	err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID: controlChunkStreamID,
		Name:          "connect",
		TransactionID: txnID,
		Arguments: []interface{}{
			flvio.AMFMap{
				{K: "app", V: u.App},
				{K: "flashVer", V: "LNX 9,0,124,2"},
				{K: "tcUrl", V: u.TCURL},
				{K: "fpad", V: false},
				{K: "capabilities", V: float64(15)},
				{K: "audioCodecs", V: float64(4071)},
				{K: "videoCodecs", V: float64(252)},
				{K: "videoFunction", V: float64(1)},
			},
		},
	})
	if err != nil {
		return err
	}

	result, err := wait()
	if err != nil {
		return err
	}

	if ma, ok := asInfoObject(result); ok {
		if oe, ok := ma.GetFloat64("objectEncoding"); ok {
			s.mu.Lock()
			s.remoteObjEnc = oe
			s.mu.Unlock()
		}
	}

	s.setState(StateConnected)
	return nil
}

// asInfoObject extracts the second (information) AMF argument of a
// _result/onStatus reply.
func asInfoObject(v interface{}) (flvio.AMFMap, bool) {
	args, ok := v.([]interface{})
	if !ok || len(args) < 2 {
		return nil, false
	}
	ma, ok := args[1].(flvio.AMFMap)
	return ma, ok
}

// CreateStream issues createStream and stores the returned numeric
// stream id, advancing CONNECTED -> STREAM_CREATED.
func (s *Session) CreateStream() error {
	txnID := s.allocateTxnID()
	wait := s.coord.Register(transaction.IDKey(txnID))

	err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID: controlChunkStreamID,
		Name:          "createStream",
		TransactionID: txnID,
		Arguments:     []interface{}{nil},
	})
	if err != nil {
		return err
	}

	result, err := wait()
	if err != nil {
		return err
	}

	args, ok := result.([]interface{})
	if !ok || len(args) < 2 {
		return &rtmperrs.ProtocolError{Reason: "createStream result missing stream id"}
	}
	id, ok := args[1].(float64)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "createStream result stream id is not a number"}
	}

	s.setStreamID(uint32(id))
	s.setState(StateStreamCreated)
	return nil
}

// Publish issues releaseStream, FCPublish, and publish for streamKey,
// advancing STREAM_CREATED -> PUBLISHING on success.
func (s *Session) Publish(streamKey, publishType string) error {
	if err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID: controlChunkStreamID,
		Name:          "releaseStream",
		TransactionID: s.allocateTxnID(),
		Arguments:     []interface{}{nil, streamKey},
	}); err != nil {
		return err
	}

	if err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID: controlChunkStreamID,
		Name:          "FCPublish",
		TransactionID: s.allocateTxnID(),
		Arguments:     []interface{}{nil, streamKey},
	}); err != nil {
		return err
	}

	wait := s.coord.Register(transaction.StatusKey("NetStream.Publish"))

	err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID:   audioVideoChunkStreamID,
		MessageStreamID: s.currentStreamID(),
		Name:            "publish",
		TransactionID:   s.allocateTxnID(),
		Arguments:       []interface{}{nil, streamKey, publishType},
	})
	if err != nil {
		return err
	}

	if _, err := wait(); err != nil {
		s.setState(StateClosing)
		return err
	}

	s.setState(StatePublishing)
	return nil
}

// Play issues play for streamKey, advancing STREAM_CREATED -> PLAYING
// on success.
func (s *Session) Play(streamKey string) error {
	if err := s.writeLocked(&message.MsgUserControlSetBufferLength{
		StreamID:       s.currentStreamID(),
		BufferLengthMs: 0x64,
	}); err != nil {
		return err
	}

	wait := s.coord.Register(transaction.StatusKey("NetStream.Play"))

	err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID:   audioVideoChunkStreamID,
		MessageStreamID: s.currentStreamID(),
		Name:            "play",
		TransactionID:   s.allocateTxnID(),
		Arguments:       []interface{}{nil, streamKey},
	})
	if err != nil {
		return err
	}

	if _, err := wait(); err != nil {
		s.setState(StateClosing)
		return err
	}

	s.setState(StatePlaying)
	return nil
}
