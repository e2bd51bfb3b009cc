package session

import "time"

// Chunk stream ids, fixed by convention: 3 for connect-level commands,
// 4 for publish/play-level commands, 5 for server replies on the media
// stream.
const (
	controlChunkStreamID    = 3
	audioVideoChunkStreamID = 4
)

// tunnelPollInterval is how often the HTTP-tunneled transport flushes
// buffered outbound bytes and polls for inbound ones.
const tunnelPollInterval = 250 * time.Millisecond
