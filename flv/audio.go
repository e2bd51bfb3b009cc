package flv

import (
	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// AudioPacketType is the enhanced (ex-header) audio packet type,
// carried in the low nibble of an enhanced tag's first byte (or at the
// end of a ModEx chain).
type AudioPacketType uint8

// Enhanced audio packet types.
const (
	AudioPacketSequenceStart      AudioPacketType = 0
	AudioPacketCodedFrames        AudioPacketType = 1
	AudioPacketSequenceEnd        AudioPacketType = 2
	AudioPacketMultichannelConfig AudioPacketType = 4
	AudioPacketMultitrack         AudioPacketType = 5
	AudioPacketModEx              AudioPacketType = 7
)

// AudioTrackDescriptor selects how a multitrack audio tag's tracks are
// laid out on the wire.
type AudioTrackDescriptor uint8

// Multitrack descriptor values.
const (
	AudioTrackOneTrack           AudioTrackDescriptor = 0
	AudioTrackManyTrack          AudioTrackDescriptor = 1
	AudioTrackManyTrackManyCodec AudioTrackDescriptor = 2
)

// AudioChannelOrder identifies how AudioChannelConfig.ChannelMapping is
// interpreted.
type AudioChannelOrder uint8

// Channel orderings.
const (
	AudioChannelOrderUnspecified AudioChannelOrder = 0
	AudioChannelOrderNative      AudioChannelOrder = 1
	AudioChannelOrderCustom      AudioChannelOrder = 2
)

// AudioChannelConfig is the body of an AudioPacketMultichannelConfig tag.
type AudioChannelConfig struct {
	ChannelOrder   AudioChannelOrder
	ChannelCount   uint8
	ChannelMapping []byte // present only when ChannelOrder == AudioChannelOrderCustom
}

// AudioTrack is one track's payload within a (possibly single-track)
// enhanced audio tag.
type AudioTrack struct {
	FourCC  FourCC
	TrackID uint8 // meaningful only for AudioTrackManyTrack and AudioTrackManyTrackManyCodec
	Data    []byte
}

// AudioTag is an FLV audio tag body, either legacy (SoundFormat-keyed)
// or enhanced (FourCC-keyed, ex-header).
type AudioTag struct {
	Enhanced bool

	// Legacy fields, valid when !Enhanced.
	SoundFormat   uint8
	SoundRate     uint8
	SoundSize     uint8
	SoundType     uint8
	AACPacketType uint8 // meaningful only when SoundFormat == 10 (AAC)
	LegacyBody    []byte

	// Enhanced fields, valid when Enhanced.
	PacketType         AudioPacketType
	ModEx              []ModExEntry
	MultichannelConfig *AudioChannelConfig
	TrackDescriptor    AudioTrackDescriptor
	Tracks             []AudioTrack // exactly 1 unless PacketType == AudioPacketMultitrack
}

func (t AudioTag) tagType() TagType { return TagTypeAudio }

// EncodedSize returns the number of bytes Encode will write.
func (t AudioTag) EncodedSize() uint32 {
	if !t.Enhanced {
		n := 1 + len(t.LegacyBody)
		if t.SoundFormat == 10 {
			n++
		}
		return uint32(n)
	}

	n := 1 + modExChainEncodedSize(t.ModEx)

	switch t.PacketType {
	case AudioPacketMultichannelConfig:
		n += t.MultichannelConfig.encodedSize()
	case AudioPacketMultitrack:
		n++ // track descriptor byte
		for _, tr := range t.Tracks {
			n += 4 // fourcc
			if t.TrackDescriptor != AudioTrackOneTrack {
				n++ // track id
			}
			n += 1 + len(tr.Data) // per-track size prefix (1 byte, data < 255 bytes) + data
		}
	default:
		if len(t.Tracks) == 1 {
			n += 4 + len(t.Tracks[0].Data)
		}
	}
	return uint32(n)
}

func (c *AudioChannelConfig) encodedSize() int {
	n := 2
	if c.ChannelOrder == AudioChannelOrderCustom {
		n += len(c.ChannelMapping)
	}
	return n
}

// Encode writes the audio tag body to dst, which must be at least
// EncodedSize() bytes.
func (t AudioTag) Encode(dst []byte) error {
	if !t.Enhanced {
		dst[0] = t.SoundFormat<<4 | t.SoundRate<<2 | t.SoundSize<<1 | t.SoundType
		pos := 1
		if t.SoundFormat == 10 {
			dst[pos] = t.AACPacketType
			pos++
		}
		copy(dst[pos:], t.LegacyBody)
		return nil
	}

	headerType := uint8(t.PacketType)
	if len(t.ModEx) > 0 {
		headerType = modExContinue
	}
	dst[0] = 9<<4 | headerType&0x0F
	pos := 1
	pos += encodeModExChain(dst[pos:], t.ModEx, uint8(t.PacketType))

	switch t.PacketType {
	case AudioPacketMultichannelConfig:
		c := t.MultichannelConfig
		dst[pos] = byte(c.ChannelOrder)
		dst[pos+1] = c.ChannelCount
		pos += 2
		if c.ChannelOrder == AudioChannelOrderCustom {
			copy(dst[pos:], c.ChannelMapping)
		}
	case AudioPacketMultitrack:
		dst[pos] = byte(t.TrackDescriptor)
		pos++
		for _, tr := range t.Tracks {
			tr.FourCC.Put(dst[pos:])
			pos += 4
			if t.TrackDescriptor != AudioTrackOneTrack {
				dst[pos] = tr.TrackID
				pos++
			}
			dst[pos] = byte(len(tr.Data))
			pos++
			copy(dst[pos:], tr.Data)
			pos += len(tr.Data)
		}
	default:
		if len(t.Tracks) == 1 {
			t.Tracks[0].FourCC.Put(dst[pos:])
			copy(dst[pos+4:], t.Tracks[0].Data)
		}
	}
	return nil
}

// decodeAudioTag decodes an audio tag body of the given declared size.
func decodeAudioTag(r *bodyReader) (AudioTag, error) {
	first, err := r.readByte()
	if err != nil {
		return AudioTag{}, err
	}

	if first>>4 != 9 {
		soundFormat := first >> 4
		t := AudioTag{
			SoundFormat: soundFormat,
			SoundRate:   (first >> 2) & 0x03,
			SoundSize:   (first >> 1) & 0x01,
			SoundType:   first & 0x01,
		}
		if soundFormat == 10 {
			b, err := r.readByte()
			if err != nil {
				return AudioTag{}, err
			}
			t.AACPacketType = b
		}
		body, err := r.rest()
		if err != nil {
			return AudioTag{}, err
		}
		t.LegacyBody = body
		return t, nil
	}

	packetType := AudioPacketType(first & 0x0F)
	t := AudioTag{Enhanced: true}

	if packetType == AudioPacketModEx {
		entries, next, err := decodeModExChain(r)
		if err != nil {
			return AudioTag{}, err
		}
		t.ModEx = entries
		packetType = AudioPacketType(next)
	}
	t.PacketType = packetType

	switch packetType {
	case AudioPacketMultichannelConfig:
		order, err := r.readByte()
		if err != nil {
			return AudioTag{}, err
		}
		count, err := r.readByte()
		if err != nil {
			return AudioTag{}, err
		}
		cfg := &AudioChannelConfig{ChannelOrder: AudioChannelOrder(order), ChannelCount: count}
		if cfg.ChannelOrder == AudioChannelOrderCustom {
			mapping, err := r.readN(uint32(count))
			if err != nil {
				return AudioTag{}, err
			}
			cfg.ChannelMapping = mapping
		}
		t.MultichannelConfig = cfg

	case AudioPacketMultitrack:
		desc, err := r.readByte()
		if err != nil {
			return AudioTag{}, err
		}
		t.TrackDescriptor = AudioTrackDescriptor(desc)
		if t.TrackDescriptor != AudioTrackOneTrack {
			var tracks []AudioTrack
			for r.remaining > 0 {
				fb, err := r.readN(4)
				if err != nil {
					return AudioTag{}, err
				}
				tr := AudioTrack{FourCC: ReadFourCC(fb)}
				id, err := r.readByte()
				if err != nil {
					return AudioTag{}, err
				}
				tr.TrackID = id
				size, err := r.readByte()
				if err != nil {
					return AudioTag{}, err
				}
				data, err := r.readN(uint32(size))
				if err != nil {
					return AudioTag{}, err
				}
				tr.Data = data
				tracks = append(tracks, tr)
			}
			if len(tracks) < 2 {
				return AudioTag{}, &rtmperrs.CodecError{Reason: "multitrack audio tag needs at least 2 tracks"}
			}
			t.Tracks = tracks
		} else {
			fb, err := r.readN(4)
			if err != nil {
				return AudioTag{}, err
			}
			size, err := r.readByte()
			if err != nil {
				return AudioTag{}, err
			}
			data, err := r.readN(uint32(size))
			if err != nil {
				return AudioTag{}, err
			}
			t.Tracks = []AudioTrack{{FourCC: ReadFourCC(fb), Data: data}}
		}

	default:
		fb, err := r.readN(4)
		if err != nil {
			return AudioTag{}, err
		}
		data, err := r.rest()
		if err != nil {
			return AudioTag{}, err
		}
		t.Tracks = []AudioTrack{{FourCC: ReadFourCC(fb), Data: data}}
	}

	return t, nil
}

// DecodeAudioTag decodes an audio tag body of bodySize bytes from src.
func DecodeAudioTag(src bytesrc.Source, bodySize uint32) (AudioTag, error) {
	return decodeAudioTag(newBodyReader(src, bodySize))
}
