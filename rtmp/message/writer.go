package message

import (
	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Writer marshals typed Messages and splits them into chunks via
// rawmessage.Writer.
type Writer struct {
	w *rawmessage.Writer
}

// NewWriter allocates a Writer writing chunks through bcw.
func NewWriter(bcw *bytecounter.Writer, checkAcknowledge bool) *Writer {
	return &Writer{w: rawmessage.NewWriter(bcw, bcw, checkAcknowledge)}
}

// SetAcknowledgeValue records the last Acknowledgement value received
// from the peer, so the writer can detect a stalled window.
func (w *Writer) SetAcknowledgeValue(v uint32) {
	w.w.SetAcknowledgeValue(v)
}

// Write marshals and writes msg, applying any SetChunkSize or
// SetWindowAckSize control message to the writer's own state.
func (w *Writer) Write(msg Message) error {
	raw, err := msg.Marshal()
	if err != nil {
		return err
	}

	if err := w.w.Write(raw); err != nil {
		return &rtmperrs.IoTransportError{Op: "write message", Err: err}
	}

	switch tmsg := msg.(type) {
	case *MsgSetChunkSize:
		w.w.SetChunkSize(tmsg.Value)
	case MsgSetChunkSize:
		w.w.SetChunkSize(tmsg.Value)
	case *MsgSetWindowAckSize:
		w.w.SetWindowAckSize(tmsg.Value)
	case MsgSetWindowAckSize:
		w.w.SetWindowAckSize(tmsg.Value)
	}

	return nil
}
