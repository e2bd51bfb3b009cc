package session

import (
	"sync"
	"time"

	"github.com/bluenviron/rtmplib/logger"
	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/handshake"
	"github.com/bluenviron/rtmplib/rtmp/message"
	"github.com/bluenviron/rtmplib/rtmp/transaction"
	"github.com/bluenviron/rtmplib/rtmp/transport"
)

// Handlers are the application callbacks the dispatch loop invokes as
// it decodes incoming messages, per §4.8's "delivered to the callback"
// language. Any nil field is simply skipped.
type Handlers struct {
	// OnAudio/OnVideo are invoked for every audio/video message once
	// the session reaches PUBLISHING (server) or PLAYING (client).
	OnAudio func(timestamp time.Duration, tag interface{})
	OnVideo func(timestamp time.Duration, tag interface{})

	// OnMetadata is invoked for AMF0/AMF3 data messages.
	OnMetadata func(values []interface{})

	// OnUserControl is invoked for STREAM_BEGIN/STREAM_EOF/
	// STREAM_IS_RECORDED events the peer surfaces per §4.8.
	OnUserControl func(msg message.Message)

	// OnPublish (server only) is asked whether to accept an incoming
	// publish request for streamKey; returning false yields
	// NetStream.Publish.Failed instead of .Start.
	OnPublish func(app, streamKey, publishType string) bool

	// OnPlay (server only) is invoked when a client requests playback
	// of streamKey.
	OnPlay func(app, streamKey string)
}

// Session is one live RTMP connection, client- or server-side,
// running the dispatch loop of §4.8 on its own goroutine. Sessions
// share no package-level state (§9): every field lives on the
// instance.
type Session struct {
	id     string
	role   Role
	cfg    Config
	log    *logger.Logger
	tr     transport.Transport
	bc     *bytecounter.ReadWriter
	reader *message.Reader
	writer *message.Writer
	coord     *transaction.Coordinator
	h         Handlers
	cmdCh     chan *message.MsgCommandAMF0
	startWall time.Time

	writeMu sync.Mutex

	mu           sync.Mutex
	state        State
	streamID     uint32
	streamIDSeq  uint32
	nextTxnID    float64
	ackWindow    uint32
	closeOnce    sync.Once
	closeErr     error
	readLoopDone chan struct{}
	remoteObjEnc float64
	connectApp   string
	connectTcURL string
}

// ID returns the session's correlation id, assigned at construction.
func (s *Session) ID() string { return s.id }

// State returns the session's current state-machine node.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.log.Log(logger.Debug, "[%s] state -> %s", s.id, st)
}

func newSession(role Role, tr transport.Transport, cfg Config, h Handlers, log *logger.Logger) *Session {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.New(logger.Info, logger.DestinationStdout)
	}

	s := &Session{
		id:           newSessionID(),
		role:         role,
		cfg:          cfg,
		log:          log,
		tr:           tr,
		h:            h,
		state:        StateHandshaking,
		streamIDSeq:  2,
		nextTxnID:    1,
		ackWindow:    cfg.WriteWindowAck,
		coord:        transaction.New(),
		readLoopDone: make(chan struct{}),
		cmdCh:        make(chan *message.MsgCommandAMF0, cmdQueueSize),
		startWall:    cfg.Clock(),
	}
	return s
}

func (s *Session) bootstrapCodec() {
	s.bc = bytecounter.NewReadWriter(s.tr, nil)
	s.reader = message.NewReader(s.bc.Reader, s.onAckNeeded)
	s.writer = message.NewWriter(s.bc.Writer, false)
}

func (s *Session) onAckNeeded(total uint32) error {
	return s.writeLocked(&message.MsgAcknowledge{Value: total})
}

func (s *Session) writeLocked(msg message.Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.writer.Write(msg)
}

// BytesReceived returns the number of bytes read from the transport
// so far.
func (s *Session) BytesReceived() uint64 {
	return s.bc.Reader.Count()
}

// BytesSent returns the number of bytes written to the transport so
// far.
func (s *Session) BytesSent() uint64 {
	return s.bc.Writer.Count()
}

// Close tears the session down, completing any outstanding
// transactions with a cancellation error and closing the transport.
// Safe to call more than once.
func (s *Session) Close(cause error) error {
	s.closeOnce.Do(func() {
		s.setState(StateClosed)
		s.coord.Close(cause)
		s.closeErr = s.tr.Close()
	})
	return s.closeErr
}

// Done returns a channel closed once the read loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.readLoopDone
}

func (s *Session) handshake(strict bool) error {
	var err error
	if s.role == RoleClient {
		_, err = handshake.DoClient(s.tr, strict)
	} else {
		_, err = handshake.DoServer(s.tr, strict)
	}
	if err != nil {
		return err
	}
	s.bootstrapCodec()
	if err := s.writeLocked(&message.MsgSetChunkSize{Value: s.cfg.WriteChunkSize}); err != nil {
		return err
	}
	s.setState(StateConnected)
	return nil
}

func (s *Session) allocateTxnID() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextTxnID
	s.nextTxnID++
	return id
}

func (s *Session) currentStreamID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamID
}

func (s *Session) setStreamID(id uint32) {
	s.mu.Lock()
	s.streamID = id
	s.mu.Unlock()
}

// shouldDrop implements §4.8's frame-drop policy: a frame is dropped
// when the session's configured clock has already passed
// startWall + frameTimestamp + TooLateDropTimeoutMs, i.e. the frame's
// RTMP timestamp projected onto wall-clock time plus the drop
// timeout. Disabled when the timeout is zero.
func (s *Session) shouldDrop(frameTimestamp time.Duration) bool {
	if s.cfg.TooLateDropTimeoutMs == 0 {
		return false
	}
	deadline := s.startWall.Add(frameTimestamp).Add(time.Duration(s.cfg.TooLateDropTimeoutMs) * time.Millisecond)
	return s.cfg.Clock().After(deadline)
}
