package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetChunkSizeRoundTrip(t *testing.T) {
	m := MsgSetChunkSize{Value: 4096}
	raw, err := m.Marshal()
	require.NoError(t, err)

	var decoded MsgSetChunkSize
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, m.Value, decoded.Value)
}

func TestSetChunkSizeMasksHighBit(t *testing.T) {
	m := MsgSetChunkSize{Value: 4096}
	raw, err := m.Marshal()
	require.NoError(t, err)

	raw.Body[0] |= 0x80

	var decoded MsgSetChunkSize
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, m.Value, decoded.Value)
}

func TestAbortRoundTrip(t *testing.T) {
	m := MsgAbort{ChunkStreamID: 7}
	raw, err := m.Marshal()
	require.NoError(t, err)
	require.Equal(t, uint32(ControlChunkStreamID), raw.ChunkStreamID)

	var decoded MsgAbort
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, m.ChunkStreamID, decoded.ChunkStreamID)
}

func TestSetPeerBandwidthRoundTrip(t *testing.T) {
	m := MsgSetPeerBandwidth{Value: 2500000, Limit: PeerBandwidthDynamic}
	raw, err := m.Marshal()
	require.NoError(t, err)

	var decoded MsgSetPeerBandwidth
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, m.Value, decoded.Value)
	require.Equal(t, m.Limit, decoded.Limit)
}

func TestUserControlStreamBeginRoundTrip(t *testing.T) {
	m := MsgUserControlStreamBegin{StreamID: 3}
	raw, err := m.Marshal()
	require.NoError(t, err)

	decoded, err := allocateUserControl(raw)
	require.NoError(t, err)
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, &m, decoded)
}

func TestCommandAMF0RoundTrip(t *testing.T) {
	m := MsgCommandAMF0{
		ChunkStreamID: 3,
		Name:          "connect",
		TransactionID: 1,
		Arguments:     []interface{}{nil, "extra"},
	}
	raw, err := m.Marshal()
	require.NoError(t, err)

	var decoded MsgCommandAMF0
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, m.Name, decoded.Name)
	require.Equal(t, m.TransactionID, decoded.TransactionID)
	require.Len(t, decoded.Arguments, 2)
}

func TestDataAMF0RoundTrip(t *testing.T) {
	m := MsgDataAMF0{
		ChunkStreamID: 4,
		Payload:       []interface{}{"onMetaData", float64(42)},
	}
	raw, err := m.Marshal()
	require.NoError(t, err)

	var decoded MsgDataAMF0
	require.NoError(t, decoded.Unmarshal(raw))
	require.Equal(t, m.Payload, decoded.Payload)
}

func TestAllocateDispatchesByMessageType(t *testing.T) {
	m := MsgSetWindowAckSize{Value: 123}
	raw, err := m.Marshal()
	require.NoError(t, err)

	msg, err := allocate(raw)
	require.NoError(t, err)
	require.IsType(t, &MsgSetWindowAckSize{}, msg)
}
