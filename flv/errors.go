package flv

import "github.com/bluenviron/rtmplib/rtmperrs"

var errTruncatedTag = &rtmperrs.FramingError{Reason: "truncated FLV tag body"}
