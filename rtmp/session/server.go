package session

import (
	"strings"

	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/logger"
	"github.com/bluenviron/rtmplib/rtmp/message"
	"github.com/bluenviron/rtmplib/rtmp/transport"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// nextStreamID allocates this session's createStream id: ids must be
// >2 and distinct from any other id this session has already handed
// out, per §4.8. There is no package-level counter (§9's "Global
// state: None"): each Session tracks its own next id.
func (s *Session) nextStreamID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamIDSeq++
	return s.streamIDSeq
}

// Accept runs the server-side handshake and command sequencing over
// an already-accepted transport (from transport.Listen/ListenTLS) as
// an explicit state machine. It blocks until the client either starts
// publishing or playing, or disconnects.
func Accept(tr transport.Transport, cfg Config, h Handlers, log *logger.Logger) (*Session, error) {
	s := newSession(RoleServer, tr, cfg, h, log)

	if err := s.handshake(!tr.Relaxed()); err != nil {
		s.Close(err) //nolint:errcheck
		return nil, err
	}

	go s.readLoop()

	if err := s.serverHandshakeCommands(); err != nil {
		s.Close(err) //nolint:errcheck
		return nil, err
	}

	return s, nil
}

// serverHandshakeCommands waits for connect, replies, then serves
// createStream/releaseStream/FCPublish/FCUnpublish/publish/play in a
// loop until the client commits to publishing or playing.
func (s *Session) serverHandshakeCommands() error {
	cmd, err := s.awaitCommand("connect")
	if err != nil {
		return err
	}

	ma, app, tcURL, err := parseConnectCommand(cmd)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.connectApp = app
	s.connectTcURL = tcURL
	s.mu.Unlock()

	if err := s.writeLocked(&message.MsgSetWindowAckSize{Value: s.cfg.WriteWindowAck}); err != nil {
		return err
	}
	if err := s.writeLocked(&message.MsgSetPeerBandwidth{Value: s.cfg.WriteWindowAck, Limit: message.PeerBandwidthDynamic}); err != nil {
		return err
	}
	if err := s.writeLocked(&message.MsgUserControlStreamBegin{StreamID: 0}); err != nil {
		return err
	}

	oe, _ := ma.GetFloat64("objectEncoding")

	if err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID: cmd.ChunkStreamID,
		Name:          "_result",
		TransactionID: cmd.TransactionID,
		Arguments: []interface{}{
			flvio.AMFMap{
				{K: "fmsVer", V: "LNX 9,0,124,2"},
				{K: "capabilities", V: float64(31)},
			},
			flvio.AMFMap{
				{K: "level", V: "status"},
				{K: "code", V: "NetConnection.Connect.Success"},
				{K: "description", V: "Connection succeeded."},
				{K: "objectEncoding", V: oe},
			},
		},
	}); err != nil {
		return err
	}

	s.setState(StateConnected)

	for {
		cmd, err := s.awaitAnyCommand()
		if err != nil {
			return err
		}

		switch cmd.Name {
		case "createStream":
			id := s.nextStreamID()
			s.setStreamID(id)
			s.setState(StateStreamCreated)

			if err := s.writeLocked(&message.MsgCommandAMF0{
				ChunkStreamID: cmd.ChunkStreamID,
				Name:          "_result",
				TransactionID: cmd.TransactionID,
				Arguments:     []interface{}{nil, float64(id)},
			}); err != nil {
				return err
			}

		case "releaseStream", "FCPublish":
			if err := s.writeLocked(&message.MsgCommandAMF0{
				ChunkStreamID: cmd.ChunkStreamID,
				Name:          "_result",
				TransactionID: cmd.TransactionID,
				Arguments:     []interface{}{nil},
			}); err != nil {
				return err
			}

		case "publish":
			return s.serverHandlePublish(cmd)

		case "play":
			return s.serverHandlePlay(cmd)

		case "FCUnpublish", "closeStream", "deleteStream":
			// acknowledged implicitly; no reply expected.
		}
	}
}

func (s *Session) serverHandlePublish(cmd *message.MsgCommandAMF0) error {
	if len(cmd.Arguments) < 2 {
		return &rtmperrs.ProtocolError{Reason: "publish command missing stream key"}
	}
	streamKey, ok := cmd.Arguments[1].(string)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "publish command stream key is not a string"}
	}
	publishType := "live"
	if len(cmd.Arguments) >= 3 {
		if t, ok := cmd.Arguments[2].(string); ok {
			publishType = t
		}
	}

	accepted := true
	if s.h.OnPublish != nil {
		accepted = s.h.OnPublish(s.connectApp, streamKey, publishType)
	}

	code, desc, level := "NetStream.Publish.Start", "publish start", "status"
	if !accepted {
		code, desc, level = "NetStream.Publish.Failed", "publish rejected", "error"
	}

	err := s.writeLocked(&message.MsgCommandAMF0{
		ChunkStreamID:   audioVideoChunkStreamID + 1,
		MessageStreamID: s.currentStreamID(),
		Name:            "onStatus",
		TransactionID:   cmd.TransactionID,
		Arguments: []interface{}{
			nil,
			flvio.AMFMap{
				{K: "level", V: level},
				{K: "code", V: code},
				{K: "description", V: desc},
			},
		},
	})
	if err != nil {
		return err
	}

	if !accepted {
		s.setState(StateClosing)
		return &rtmperrs.RemoteCommandError{Command: rtmperrs.RemoteCommand{Name: code, Reason: desc}}
	}

	s.setState(StatePublishing)
	return nil
}

func (s *Session) serverHandlePlay(cmd *message.MsgCommandAMF0) error {
	if len(cmd.Arguments) < 2 {
		return &rtmperrs.ProtocolError{Reason: "play command missing stream name"}
	}
	streamKey, ok := cmd.Arguments[1].(string)
	if !ok {
		return &rtmperrs.ProtocolError{Reason: "play command stream name is not a string"}
	}

	if s.h.OnPlay != nil {
		s.h.OnPlay(s.connectApp, streamKey)
	}

	replyChunkStreamID := uint32(audioVideoChunkStreamID + 1)
	streamID := s.currentStreamID()

	if err := s.writeLocked(&message.MsgUserControlStreamIsRecorded{StreamID: streamID}); err != nil {
		return err
	}
	if err := s.writeLocked(&message.MsgUserControlStreamBegin{StreamID: streamID}); err != nil {
		return err
	}

	for _, statusCode := range []struct{ code, desc string }{
		{"NetStream.Play.Reset", "play reset"},
		{"NetStream.Play.Start", "play start"},
		{"NetStream.Data.Start", "data start"},
		{"NetStream.Play.PublishNotify", "publish notify"},
	} {
		err := s.writeLocked(&message.MsgCommandAMF0{
			ChunkStreamID:   replyChunkStreamID,
			MessageStreamID: streamID,
			Name:            "onStatus",
			TransactionID:   cmd.TransactionID,
			Arguments: []interface{}{
				nil,
				flvio.AMFMap{
					{K: "level", V: "status"},
					{K: "code", V: statusCode.code},
					{K: "description", V: statusCode.desc},
				},
			},
		})
		if err != nil {
			return err
		}
	}

	s.setState(StatePlaying)
	return nil
}

func parseConnectCommand(cmd *message.MsgCommandAMF0) (flvio.AMFMap, string, string, error) {
	if cmd.Name != "connect" {
		return nil, "", "", &rtmperrs.ProtocolError{Reason: "expected connect command, got " + cmd.Name}
	}
	if len(cmd.Arguments) < 1 {
		return nil, "", "", &rtmperrs.ProtocolError{Reason: "connect command missing command object"}
	}
	ma, ok := cmd.Arguments[0].(flvio.AMFMap)
	if !ok {
		return nil, "", "", &rtmperrs.ProtocolError{Reason: "connect command object is not an AMF object"}
	}

	app, ok := ma.GetString("app")
	if !ok {
		return nil, "", "", &rtmperrs.ProtocolError{Reason: "connect command missing app"}
	}

	tcURL, ok := ma.GetString("tcUrl")
	if !ok {
		tcURL, ok = ma.GetString("tcurl")
		if !ok {
			return nil, "", "", &rtmperrs.ProtocolError{Reason: "connect command missing tcUrl"}
		}
	}
	tcURL = strings.Trim(tcURL, "'")

	return ma, app, tcURL, nil
}
