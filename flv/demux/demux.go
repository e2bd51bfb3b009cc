// Package demux iterates the tags of an FLV stream, validating the
// previous-tag-size trailer that follows each one.
package demux

import (
	"io"

	"github.com/bluenviron/rtmplib/bytesrc"
	"github.com/bluenviron/rtmplib/flv"
	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Demuxer reads tags out of an FLV byte stream of known total size.
// A Demuxer is not safe for concurrent use.
type Demuxer struct {
	src      bytesrc.Source
	size     uint32
	consumed uint32
	Header   flv.Header
}

// New reads the 9-byte FLV header and the first (always-zero)
// previous-tag-size field, then returns a Demuxer positioned at the
// first tag.
func New(s bytesrc.SizedSource) (*Demuxer, error) {
	d := &Demuxer{src: s.Source, size: s.Size}

	hdrBuf, err := bytesrc.ReadFull(d.src, 9)
	if err != nil {
		return nil, &rtmperrs.FramingError{Reason: "truncated FLV header"}
	}
	header, err := flv.UnmarshalHeader(hdrBuf)
	if err != nil {
		return nil, err
	}
	d.Header = header
	d.consumed += 9

	ptsBuf, err := bytesrc.ReadFull(d.src, 4)
	if err != nil {
		return nil, &rtmperrs.FramingError{Reason: "truncated leading previous-tag-size"}
	}
	if flv.ReadU32(ptsBuf) != 0 {
		return nil, &rtmperrs.ProtocolError{Reason: "leading previous-tag-size must be zero"}
	}
	d.consumed += 4

	return d, nil
}

// Next decodes the next tag. It returns io.EOF once fewer than 5
// bytes remain (too little for another 11-byte header plus any body),
// matching the known total size recorded at New.
func (d *Demuxer) Next() (flv.TagHeader, flv.Tag, error) {
	if d.size > 0 && d.size-d.consumed < 5 {
		return flv.TagHeader{}, nil, io.EOF
	}

	hdrBuf, err := bytesrc.ReadFull(d.src, 11)
	if err != nil {
		return flv.TagHeader{}, nil, &rtmperrs.FramingError{Reason: "truncated tag header"}
	}
	header := flv.DecodeTagHeader(hdrBuf)
	d.consumed += 11

	tag, err := flv.DecodeTagBody(d.src, header)
	if err != nil {
		return flv.TagHeader{}, nil, err
	}
	d.consumed += header.BodySize

	ptsBuf, err := bytesrc.ReadFull(d.src, 4)
	if err != nil {
		return flv.TagHeader{}, nil, &rtmperrs.FramingError{Reason: "truncated previous-tag-size trailer"}
	}
	d.consumed += 4

	want := 11 + header.BodySize
	if flv.ReadU32(ptsBuf) != want {
		return flv.TagHeader{}, nil, &rtmperrs.ProtocolError{Reason: "previous-tag-size trailer mismatch"}
	}

	return header, tag, nil
}
