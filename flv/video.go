package flv

import (
	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// VideoFrameType is the legacy 4-bit frame type, and also the enhanced
// 3-bit frame type when Enhanced is set.
type VideoFrameType uint8

// Frame types.
const (
	VideoFrameKey        VideoFrameType = 1
	VideoFrameInter      VideoFrameType = 2
	VideoFrameDisposable VideoFrameType = 3
	VideoFrameGenerated  VideoFrameType = 4
	VideoFrameCommand    VideoFrameType = 5
)

// VideoPacketType is the enhanced (ex-header) video packet type.
type VideoPacketType uint8

// Enhanced video packet types.
const (
	VideoPacketSequenceStart          VideoPacketType = 0
	VideoPacketCodedFrames            VideoPacketType = 1
	VideoPacketSequenceEnd            VideoPacketType = 2
	VideoPacketCodedFramesX           VideoPacketType = 3
	VideoPacketMetadata               VideoPacketType = 4
	VideoPacketMPEG2TSSequenceStart   VideoPacketType = 5
	VideoPacketMultitrack             VideoPacketType = 6
	VideoPacketModEx                  VideoPacketType = 7
)

// VideoCommand is the body of a VideoFrameCommand tag.
type VideoCommand uint8

// Video commands.
const (
	VideoCommandStartSeek VideoCommand = 0
	VideoCommandEndSeek   VideoCommand = 1
)

// VideoTrackDescriptor selects how a multitrack video tag's tracks are
// laid out, mirroring AudioTrackDescriptor.
type VideoTrackDescriptor uint8

// Multitrack descriptor values.
const (
	VideoTrackOneTrack           VideoTrackDescriptor = 0
	VideoTrackManyTrack          VideoTrackDescriptor = 1
	VideoTrackManyTrackManyCodec VideoTrackDescriptor = 2
)

// VideoTrack is one track's payload within an enhanced video tag.
type VideoTrack struct {
	FourCC          FourCC
	TrackID         uint8 // meaningful only for multitrack descriptors other than OneTrack
	CompositionTime int32 // 3-byte signed, meaningful only for VideoPacketCodedFrames with AVC/HEVC
	Data            []byte
}

// VideoTag is an FLV video tag body, either legacy (CodecID-keyed) or
// enhanced (FourCC-keyed, ex-header).
type VideoTag struct {
	Enhanced  bool
	FrameType VideoFrameType

	// Legacy fields, valid when !Enhanced.
	CodecID         uint8
	AVCPacketType   uint8
	CompositionTime int32
	LegacyBody      []byte

	// Command frame body, valid when FrameType == VideoFrameCommand.
	Command VideoCommand

	// Enhanced fields, valid when Enhanced and FrameType != VideoFrameCommand.
	PacketType      VideoPacketType
	ModEx           []ModExEntry
	TrackDescriptor VideoTrackDescriptor
	Tracks          []VideoTrack // exactly 1 unless PacketType == VideoPacketMultitrack
}

func (t VideoTag) tagType() TagType { return TagTypeVideo }

func usesCompositionTime(fourCC FourCC) bool {
	return fourCC == FourCCAVC || fourCC == FourCCHEVC
}

// EncodedSize returns the number of bytes Encode will write.
func (t VideoTag) EncodedSize() uint32 {
	if !t.Enhanced {
		n := 1
		if t.FrameType != VideoFrameCommand && t.CodecID == 7 {
			n += 4 // AVCPacketType + 3-byte composition time
		}
		n += len(t.LegacyBody)
		return uint32(n)
	}

	if t.FrameType == VideoFrameCommand {
		return 2
	}

	n := 1 + modExChainEncodedSize(t.ModEx)

	switch t.PacketType {
	case VideoPacketMultitrack:
		n++ // descriptor byte
		for _, tr := range t.Tracks {
			n += 4
			if t.TrackDescriptor != VideoTrackOneTrack {
				n++
			}
			if t.PacketType == VideoPacketMultitrack && usesCompositionTime(tr.FourCC) {
				n += 3
			}
			n += 1 + len(tr.Data)
		}
	default:
		if len(t.Tracks) == 1 {
			n += 4
			if t.PacketType == VideoPacketCodedFrames && usesCompositionTime(t.Tracks[0].FourCC) {
				n += 3
			}
			n += len(t.Tracks[0].Data)
		}
	}
	return uint32(n)
}

// Encode writes the video tag body to dst, which must be at least
// EncodedSize() bytes.
func (t VideoTag) Encode(dst []byte) error {
	if !t.Enhanced {
		dst[0] = uint8(t.FrameType)<<4 | t.CodecID&0x0F
		pos := 1
		if t.FrameType != VideoFrameCommand && t.CodecID == 7 {
			dst[pos] = t.AVCPacketType
			PutI24(dst[pos+1:pos+4], t.CompositionTime)
			pos += 4
		}
		copy(dst[pos:], t.LegacyBody)
		return nil
	}

	if t.FrameType == VideoFrameCommand {
		dst[0] = 1<<7 | uint8(VideoFrameCommand)<<4
		dst[1] = byte(t.Command)
		return nil
	}

	headerType := uint8(t.PacketType)
	if len(t.ModEx) > 0 {
		headerType = modExContinue
	}
	dst[0] = 1<<7 | uint8(t.FrameType)&0x07<<4 | headerType&0x0F
	pos := 1
	pos += encodeModExChain(dst[pos:], t.ModEx, uint8(t.PacketType))

	switch t.PacketType {
	case VideoPacketMultitrack:
		dst[pos] = byte(t.TrackDescriptor)
		pos++
		for _, tr := range t.Tracks {
			tr.FourCC.Put(dst[pos:])
			pos += 4
			if t.TrackDescriptor != VideoTrackOneTrack {
				dst[pos] = tr.TrackID
				pos++
			}
			if usesCompositionTime(tr.FourCC) {
				PutI24(dst[pos:pos+3], tr.CompositionTime)
				pos += 3
			}
			dst[pos] = byte(len(tr.Data))
			pos++
			copy(dst[pos:], tr.Data)
			pos += len(tr.Data)
		}
	default:
		if len(t.Tracks) == 1 {
			tr := t.Tracks[0]
			tr.FourCC.Put(dst[pos:])
			pos += 4
			if t.PacketType == VideoPacketCodedFrames && usesCompositionTime(tr.FourCC) {
				PutI24(dst[pos:pos+3], tr.CompositionTime)
				pos += 3
			}
			copy(dst[pos:], tr.Data)
		}
	}
	return nil
}

func decodeVideoTag(r *bodyReader) (VideoTag, error) {
	first, err := r.readByte()
	if err != nil {
		return VideoTag{}, err
	}

	if first&0x80 == 0 {
		t := VideoTag{
			FrameType: VideoFrameType(first >> 4),
			CodecID:   first & 0x0F,
		}
		if t.CodecID == 7 {
			pt, err := r.readByte()
			if err != nil {
				return VideoTag{}, err
			}
			ct, err := r.readN(3)
			if err != nil {
				return VideoTag{}, err
			}
			t.AVCPacketType = pt
			t.CompositionTime = ReadI24(ct)
		}
		body, err := r.rest()
		if err != nil {
			return VideoTag{}, err
		}
		t.LegacyBody = body
		return t, nil
	}

	frameType := VideoFrameType(first >> 4 & 0x07)
	t := VideoTag{Enhanced: true, FrameType: frameType}

	if frameType == VideoFrameCommand {
		cmd, err := r.readByte()
		if err != nil {
			return VideoTag{}, err
		}
		t.Command = VideoCommand(cmd)
		return t, nil
	}

	packetType := VideoPacketType(first & 0x0F)
	if packetType == VideoPacketModEx {
		entries, next, err := decodeModExChain(r)
		if err != nil {
			return VideoTag{}, err
		}
		t.ModEx = entries
		packetType = VideoPacketType(next)
	}
	t.PacketType = packetType

	switch packetType {
	case VideoPacketMultitrack:
		desc, err := r.readByte()
		if err != nil {
			return VideoTag{}, err
		}
		t.TrackDescriptor = VideoTrackDescriptor(desc)

		var tracks []VideoTrack
		for r.remaining > 0 {
			fb, err := r.readN(4)
			if err != nil {
				return VideoTag{}, err
			}
			tr := VideoTrack{FourCC: ReadFourCC(fb)}
			if t.TrackDescriptor != VideoTrackOneTrack {
				id, err := r.readByte()
				if err != nil {
					return VideoTag{}, err
				}
				tr.TrackID = id
			}
			if usesCompositionTime(tr.FourCC) {
				ct, err := r.readN(3)
				if err != nil {
					return VideoTag{}, err
				}
				tr.CompositionTime = ReadI24(ct)
			}
			size, err := r.readByte()
			if err != nil {
				return VideoTag{}, err
			}
			data, err := r.readN(uint32(size))
			if err != nil {
				return VideoTag{}, err
			}
			tr.Data = data
			tracks = append(tracks, tr)
		}
		if len(tracks) < 2 {
			return VideoTag{}, &rtmperrs.CodecError{Reason: "multitrack video tag needs at least 2 tracks"}
		}
		t.Tracks = tracks

	default:
		fb, err := r.readN(4)
		if err != nil {
			return VideoTag{}, err
		}
		tr := VideoTrack{FourCC: ReadFourCC(fb)}
		if packetType == VideoPacketCodedFrames && usesCompositionTime(tr.FourCC) {
			ct, err := r.readN(3)
			if err != nil {
				return VideoTag{}, err
			}
			tr.CompositionTime = ReadI24(ct)
		}
		data, err := r.rest()
		if err != nil {
			return VideoTag{}, err
		}
		tr.Data = data
		t.Tracks = []VideoTrack{tr}
	}

	return t, nil
}

// DecodeVideoTag decodes a video tag body of bodySize bytes from src.
func DecodeVideoTag(src bytesrc.Source, bodySize uint32) (VideoTag, error) {
	return decodeVideoTag(newBodyReader(src, bodySize))
}
