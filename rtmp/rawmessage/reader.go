package rawmessage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bluenviron/rtmplib/rtmp/bytecounter"
	"github.com/bluenviron/rtmplib/rtmp/chunk"
)

var errMoreChunksNeeded = errors.New("more chunks are needed")

// readerChunkStream tracks, per chunk stream ID, the state needed to
// reassemble Type 1/2/3 chunks: the running timestamp, the last full
// message type/stream ID/body length, the last timestamp delta, any
// partially-received body, and whether the last full header carried
// an extended timestamp (Type 3 chunks repeat that field when it did).
type readerChunkStream struct {
	mr                   *Reader
	curTimestamp         *uint32
	curType              *chunk.MessageType
	curMessageStreamID   *uint32
	curBodyLen           *uint32
	curBody              []byte
	curTimestampDelta    *uint32
	curHasExtendedTimestamp bool
}

func (r *Reader) checkAck() error {
	if r.ackWindowSize == 0 {
		return nil
	}

	count := r.bcr.Count()
	diff := count - r.lastAckCount

	if diff > r.ackWindowSize {
		if err := r.onAckNeeded(count); err != nil {
			return err
		}
		r.lastAckCount += r.ackWindowSize
	}

	return nil
}

func (rc *readerChunkStream) readMessage(typ uint8) (*Message, error) {
	switch typ {
	case 0:
		if rc.curBody != nil {
			return nil, fmt.Errorf("received type 0 chunk but expected type 3 chunk")
		}

		if err := rc.mr.c0.Read(rc.mr.br, rc.mr.chunkSize); err != nil {
			return nil, err
		}
		if err := rc.mr.checkAck(); err != nil {
			return nil, err
		}

		v1 := rc.mr.c0.MessageStreamID
		rc.curMessageStreamID = &v1
		v2 := rc.mr.c0.Type
		rc.curType = &v2
		v3 := rc.mr.c0.Timestamp
		rc.curTimestamp = &v3
		v4 := rc.mr.c0.BodyLen
		rc.curBodyLen = &v4
		rc.curTimestampDelta = nil
		rc.curHasExtendedTimestamp = rc.mr.c0.Extended

		if rc.mr.c0.BodyLen != uint32(len(rc.mr.c0.Body)) {
			rc.curBody = rc.mr.c0.Body
			return nil, errMoreChunksNeeded
		}

		rc.mr.msg.Timestamp = time.Duration(rc.mr.c0.Timestamp) * time.Millisecond
		rc.mr.msg.Type = rc.mr.c0.Type
		rc.mr.msg.MessageStreamID = rc.mr.c0.MessageStreamID
		rc.mr.msg.Body = rc.mr.c0.Body
		return &rc.mr.msg, nil

	case 1:
		if rc.curTimestamp == nil {
			return nil, fmt.Errorf("received type 1 chunk without previous chunk")
		}
		if rc.curBody != nil {
			return nil, fmt.Errorf("received type 1 chunk but expected type 3 chunk")
		}

		if err := rc.mr.c1.Read(rc.mr.br, rc.mr.chunkSize); err != nil {
			return nil, err
		}
		if err := rc.mr.checkAck(); err != nil {
			return nil, err
		}

		v2 := rc.mr.c1.Type
		rc.curType = &v2
		v3 := *rc.curTimestamp + rc.mr.c1.TimestampDelta
		rc.curTimestamp = &v3
		v4 := rc.mr.c1.BodyLen
		rc.curBodyLen = &v4
		v5 := rc.mr.c1.TimestampDelta
		rc.curTimestampDelta = &v5
		rc.curHasExtendedTimestamp = rc.mr.c1.Extended

		if rc.mr.c1.BodyLen != uint32(len(rc.mr.c1.Body)) {
			rc.curBody = rc.mr.c1.Body
			return nil, errMoreChunksNeeded
		}

		rc.mr.msg.Timestamp = time.Duration(*rc.curTimestamp) * time.Millisecond
		rc.mr.msg.Type = rc.mr.c1.Type
		rc.mr.msg.MessageStreamID = *rc.curMessageStreamID
		rc.mr.msg.Body = rc.mr.c1.Body
		return &rc.mr.msg, nil

	case 2:
		if rc.curTimestamp == nil {
			return nil, fmt.Errorf("received type 2 chunk without previous chunk")
		}
		if rc.curBody != nil {
			return nil, fmt.Errorf("received type 2 chunk but expected type 3 chunk")
		}

		chunkBodyLen := *rc.curBodyLen
		if chunkBodyLen > rc.mr.chunkSize {
			chunkBodyLen = rc.mr.chunkSize
		}

		if err := rc.mr.c2.Read(rc.mr.br, chunkBodyLen); err != nil {
			return nil, err
		}
		if err := rc.mr.checkAck(); err != nil {
			return nil, err
		}

		v1 := *rc.curTimestamp + rc.mr.c2.TimestampDelta
		rc.curTimestamp = &v1
		v2 := rc.mr.c2.TimestampDelta
		rc.curTimestampDelta = &v2
		rc.curHasExtendedTimestamp = rc.mr.c2.Extended

		if *rc.curBodyLen != uint32(len(rc.mr.c2.Body)) {
			rc.curBody = rc.mr.c2.Body
			return nil, errMoreChunksNeeded
		}

		rc.mr.msg.Timestamp = time.Duration(*rc.curTimestamp) * time.Millisecond
		rc.mr.msg.Type = *rc.curType
		rc.mr.msg.MessageStreamID = *rc.curMessageStreamID
		rc.mr.msg.Body = rc.mr.c2.Body
		return &rc.mr.msg, nil

	default: // 3
		if rc.curBody == nil && rc.curTimestampDelta == nil {
			return nil, fmt.Errorf("received type 3 chunk without previous chunk")
		}

		if rc.curBody != nil {
			chunkBodyLen := (*rc.curBodyLen) - uint32(len(rc.curBody))
			if chunkBodyLen > rc.mr.chunkSize {
				chunkBodyLen = rc.mr.chunkSize
			}

			if err := rc.mr.c3.Read(rc.mr.br, chunkBodyLen, rc.curHasExtendedTimestamp); err != nil {
				return nil, err
			}
			if err := rc.mr.checkAck(); err != nil {
				return nil, err
			}

			rc.curBody = append(rc.curBody, rc.mr.c3.Body...)

			if *rc.curBodyLen != uint32(len(rc.curBody)) {
				return nil, errMoreChunksNeeded
			}

			body := rc.curBody
			rc.curBody = nil

			rc.mr.msg.Timestamp = time.Duration(*rc.curTimestamp) * time.Millisecond
			rc.mr.msg.Type = *rc.curType
			rc.mr.msg.MessageStreamID = *rc.curMessageStreamID
			rc.mr.msg.Body = body
			return &rc.mr.msg, nil
		}

		chunkBodyLen := *rc.curBodyLen
		if chunkBodyLen > rc.mr.chunkSize {
			chunkBodyLen = rc.mr.chunkSize
		}

		if err := rc.mr.c3.Read(rc.mr.br, chunkBodyLen, rc.curHasExtendedTimestamp); err != nil {
			return nil, err
		}
		if err := rc.mr.checkAck(); err != nil {
			return nil, err
		}

		v1 := *rc.curTimestamp + *rc.curTimestampDelta
		rc.curTimestamp = &v1

		if *rc.curBodyLen != uint32(len(rc.mr.c3.Body)) {
			rc.curBody = rc.mr.c3.Body
			return nil, errMoreChunksNeeded
		}

		rc.mr.msg.Timestamp = time.Duration(*rc.curTimestamp) * time.Millisecond
		rc.mr.msg.Type = *rc.curType
		rc.mr.msg.MessageStreamID = *rc.curMessageStreamID
		rc.mr.msg.Body = rc.mr.c3.Body
		return &rc.mr.msg, nil
	}
}

// Reader reassembles RTMP chunks into whole Messages.
type Reader struct {
	bcr         *bytecounter.Reader
	onAckNeeded func(uint32) error

	br            *bufio.Reader
	chunkSize     uint32
	ackWindowSize uint32
	lastAckCount  uint32
	msg           Message
	c0            chunk.Chunk0
	c1            chunk.Chunk1
	c2            chunk.Chunk2
	c3            chunk.Chunk3
	chunkStreams  map[uint32]*readerChunkStream
}

// NewReader allocates a Reader.
func NewReader(
	r io.Reader,
	bcr *bytecounter.Reader,
	onAckNeeded func(uint32) error,
) *Reader {
	return &Reader{
		bcr:          bcr,
		br:           bufio.NewReader(r),
		onAckNeeded:  onAckNeeded,
		chunkSize:    128,
		chunkStreams: make(map[uint32]*readerChunkStream),
	}
}

// SetChunkSize sets the maximum chunk size.
func (r *Reader) SetChunkSize(v uint32) {
	r.chunkSize = v
}

// SetWindowAckSize sets the window acknowledgement size.
func (r *Reader) SetWindowAckSize(v uint32) {
	r.ackWindowSize = v
}

// Read reads a Message.
func (r *Reader) Read() (*Message, error) {
	for {
		bh, err := chunk.ReadBasicHeader(r.br)
		if err != nil {
			return nil, err
		}

		rc, ok := r.chunkStreams[bh.ChunkStreamID]
		if !ok {
			rc = &readerChunkStream{mr: r}
			r.chunkStreams[bh.ChunkStreamID] = rc
		}

		msg, err := rc.readMessage(bh.Fmt)
		if err != nil {
			if errors.Is(err, errMoreChunksNeeded) {
				continue
			}
			return nil, err
		}

		msg.ChunkStreamID = bh.ChunkStreamID
		return msg, nil
	}
}
