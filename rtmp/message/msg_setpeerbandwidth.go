package message

import (
	"encoding/binary"

	"github.com/bluenviron/rtmplib/rtmp/chunk"
	"github.com/bluenviron/rtmplib/rtmp/rawmessage"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// PeerBandwidthLimitType is the limit-type byte trailing a
// MsgSetPeerBandwidth's window size.
type PeerBandwidthLimitType uint8

// Limit types, per §3.
const (
	PeerBandwidthHard    PeerBandwidthLimitType = 0
	PeerBandwidthSoft    PeerBandwidthLimitType = 1
	PeerBandwidthDynamic PeerBandwidthLimitType = 2
)

// MsgSetPeerBandwidth is a Set Peer Bandwidth message (type 6).
type MsgSetPeerBandwidth struct {
	Value uint32
	Limit PeerBandwidthLimitType
}

// Unmarshal implements Message.
func (m *MsgSetPeerBandwidth) Unmarshal(raw *rawmessage.Message) error {
	if len(raw.Body) != 5 {
		return &rtmperrs.ProtocolError{Reason: "invalid SetPeerBandwidth body size"}
	}

	m.Value = binary.BigEndian.Uint32(raw.Body)
	m.Limit = PeerBandwidthLimitType(raw.Body[4])
	return nil
}

// Marshal implements Message.
func (m MsgSetPeerBandwidth) Marshal() (*rawmessage.Message, error) {
	body := make([]byte, 5)
	binary.BigEndian.PutUint32(body, m.Value)
	body[4] = byte(m.Limit)

	return &rawmessage.Message{
		ChunkStreamID: ControlChunkStreamID,
		Type:          chunk.MessageTypeSetPeerBandwidth,
		Body:          body,
	}, nil
}
