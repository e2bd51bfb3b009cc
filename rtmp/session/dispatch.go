package session

import (
	"strconv"
	"time"

	"github.com/notedit/rtmp/format/flv/flvio"

	"github.com/bluenviron/rtmplib/rtmp/message"
	"github.com/bluenviron/rtmplib/rtmp/transaction"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// cmdQueueSize bounds how many not-yet-awaited incoming commands the
// read loop will buffer before blocking; the setup sequence
// (connect/createStream/publish/play) never has more than one
// in flight.
const cmdQueueSize = 8

// awaitCommand blocks for the next incoming command and requires it
// be named name.
func (s *Session) awaitCommand(name string) (*message.MsgCommandAMF0, error) {
	cmd, err := s.awaitAnyCommand()
	if err != nil {
		return nil, err
	}
	if cmd.Name != name {
		return nil, &rtmperrs.ProtocolError{Reason: "expected " + name + " command, got " + cmd.Name}
	}
	return cmd, nil
}

// awaitAnyCommand blocks for the next incoming command of any name.
func (s *Session) awaitAnyCommand() (*message.MsgCommandAMF0, error) {
	select {
	case cmd, ok := <-s.cmdCh:
		if !ok {
			return nil, &rtmperrs.ProtocolError{Reason: "session closed while awaiting a command"}
		}
		return cmd, nil
	case <-s.readLoopDone:
		return nil, &rtmperrs.ProtocolError{Reason: "session closed while awaiting a command"}
	}
}

// readLoop is the single goroutine that owns the read half of the
// transport, per §5's scheduling model: it decodes every incoming
// message, resolves transaction awaits, answers protocol-level
// housekeeping (peer bandwidth, ping), and fans media/data messages
// out to Handlers.
func (s *Session) readLoop() {
	defer close(s.readLoopDone)
	defer close(s.cmdCh)

	for {
		msg, err := s.reader.Read()
		if err != nil {
			s.Close(err) //nolint:errcheck
			return
		}

		switch m := msg.(type) {
		case *message.MsgCommandAMF0:
			s.dispatchCommand(m)

		case *message.MsgCommandAMF3:
			s.dispatchCommand(&message.MsgCommandAMF0{
				ChunkStreamID:   m.ChunkStreamID,
				MessageStreamID: m.MessageStreamID,
				Name:            m.Name,
				TransactionID:   m.TransactionID,
				Arguments:       m.Arguments,
			})

		case *message.MsgSetPeerBandwidth:
			s.writeLocked(&message.MsgSetWindowAckSize{Value: s.cfg.WriteWindowAck}) //nolint:errcheck

		case *message.MsgUserControlPingRequest:
			s.writeLocked(&message.MsgUserControlPingResponse{ServerTime: m.ServerTime}) //nolint:errcheck

		case *message.MsgUserControlStreamBegin, *message.MsgUserControlStreamEOF,
			*message.MsgUserControlStreamIsRecorded:
			if s.h.OnUserControl != nil {
				s.h.OnUserControl(msg)
			}

		case *message.MsgDataAMF0:
			if s.h.OnMetadata != nil {
				s.h.OnMetadata(m.Payload)
			}

		case *message.MsgDataAMF3:
			if s.h.OnMetadata != nil {
				s.h.OnMetadata(m.Payload)
			}

		case *message.MsgAudio:
			if s.h.OnAudio != nil {
				s.h.OnAudio(msTimestampDuration(m.Timestamp), m.Tag)
			}

		case *message.MsgVideo:
			if s.h.OnVideo != nil {
				s.h.OnVideo(msTimestampDuration(m.Timestamp), m.Tag)
			}
		}
	}
}

func msTimestampDuration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// dispatchCommand routes an incoming command message either to the
// transaction coordinator (when it is a reply to something this
// session sent) or to the setup-sequence command queue (when it is an
// incoming RPC this session must answer, e.g. a server's connect).
func (s *Session) dispatchCommand(cmd *message.MsgCommandAMF0) {
	switch cmd.Name {
	case "_result", "_error":
		var err error
		if cmd.Name == "_error" {
			err = &rtmperrs.ProtocolError{Reason: "remote returned _error for transaction " + floatToStr(cmd.TransactionID)}
		}
		s.coord.Complete(transaction.IDKey(cmd.TransactionID), []interface{}(cmd.Arguments), err)
		return

	case "onStatus":
		code, level := statusCodeAndLevel(cmd.Arguments)
		if code != "" {
			s.coord.CompleteStatusCode(code, level, []interface{}(cmd.Arguments))
			return
		}
	}

	select {
	case s.cmdCh <- cmd:
	case <-s.readLoopDone:
	}
}

func statusCodeAndLevel(args []interface{}) (code, level string) {
	if len(args) < 2 {
		return "", ""
	}
	ma, ok := args[1].(flvio.AMFMap)
	if !ok {
		return "", ""
	}
	code, _ = ma.GetString("code")
	level, _ = ma.GetString("level")
	return code, level
}

func floatToStr(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
