package message

import (
	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

func allocate(raw *rawmessage.Message) (Message, error) {
	switch raw.Type {
	case chunk.MessageTypeSetChunkSize:
		return &MsgSetChunkSize{}, nil
	case chunk.MessageTypeAbortMessage:
		return &MsgAbort{}, nil
	case chunk.MessageTypeAcknowledge:
		return &MsgAcknowledge{}, nil
	case chunk.MessageTypeSetWindowAckSize:
		return &MsgSetWindowAckSize{}, nil
	case chunk.MessageTypeSetPeerBandwidth:
		return &MsgSetPeerBandwidth{}, nil
	case chunk.MessageTypeUserControl:
		return allocateUserControl(raw)
	case chunk.MessageTypeAudio:
		return &MsgAudio{}, nil
	case chunk.MessageTypeVideo:
		return &MsgVideo{}, nil
	case chunk.MessageTypeDataAMF0:
		return &MsgDataAMF0{}, nil
	case chunk.MessageTypeDataAMF3:
		return &MsgDataAMF3{}, nil
	case chunk.MessageTypeSharedAMF0:
		return &MsgSharedObjectAMF0{}, nil
	case chunk.MessageTypeSharedAMF3:
		return &MsgSharedObjectAMF3{}, nil
	case chunk.MessageTypeCommandAMF0:
		return &MsgCommandAMF0{}, nil
	case chunk.MessageTypeCommandAMF3:
		return &MsgCommandAMF3{}, nil
	case chunk.MessageTypeAggregate:
		return &MsgAggregate{}, nil
	default:
		return nil, &rtmperrs.ProtocolError{Reason: "unhandled message type"}
	}
}

func allocateUserControl(raw *rawmessage.Message) (Message, error) {
	if len(raw.Body) < 2 {
		return nil, &rtmperrs.ProtocolError{Reason: "truncated user control event"}
	}

	switch UserControlEventType(uint16(raw.Body[0])<<8 | uint16(raw.Body[1])) {
	case UserControlStreamBegin:
		return &MsgUserControlStreamBegin{}, nil
	case UserControlStreamEOF:
		return &MsgUserControlStreamEOF{}, nil
	case UserControlStreamDry:
		return &MsgUserControlStreamDry{}, nil
	case UserControlSetBufferLength:
		return &MsgUserControlSetBufferLength{}, nil
	case UserControlStreamIsRecorded:
		return &MsgUserControlStreamIsRecorded{}, nil
	case UserControlPingRequest:
		return &MsgUserControlPingRequest{}, nil
	case UserControlPingResponse:
		return &MsgUserControlPingResponse{}, nil
	default:
		return nil, &rtmperrs.ProtocolError{Reason: "unknown user control event type"}
	}
}

// Reader reassembles chunks into raw messages (via rawmessage.Reader)
// and allocates/unmarshals the typed Message for each one.
type Reader struct {
	r *rawmessage.Reader
}

// NewReader allocates a Reader over bcr. bcr is handed to rawmessage
// both as the chunk source and as the byte counter, so rawmessage's
// window-ack bookkeeping sees every byte consumed.
func NewReader(bcr *bytecounter.Reader, onAckNeeded func(uint32) error) *Reader {
	return &Reader{r: rawmessage.NewReader(bcr, bcr, onAckNeeded)}
}

// SetChunkSize sets the maximum inbound chunk size.
func (r *Reader) SetChunkSize(v uint32) {
	r.r.SetChunkSize(v)
}

// SetWindowAckSize sets the window acknowledgement size.
func (r *Reader) SetWindowAckSize(v uint32) {
	r.r.SetWindowAckSize(v)
}

// Read reads and decodes the next Message, applying any SetChunkSize
// or SetWindowAckSize control message to the reader's own state as it
// goes so the caller does not need to special-case them.
func (r *Reader) Read() (Message, error) {
	raw, err := r.r.Read()
	if err != nil {
		return nil, err
	}

	msg, err := allocate(raw)
	if err != nil {
		return nil, err
	}

	if err := msg.Unmarshal(raw); err != nil {
		return nil, err
	}

	switch tmsg := msg.(type) {
	case *MsgSetChunkSize:
		if tmsg.Value < 128 || tmsg.Value > 65536 {
			return nil, &rtmperrs.ProtocolError{Reason: "SetChunkSize out of [128, 65536] range"}
		}
		r.r.SetChunkSize(tmsg.Value)
	case *MsgSetWindowAckSize:
		r.r.SetWindowAckSize(tmsg.Value)
	}

	return msg, nil
}
