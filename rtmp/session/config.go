// Package session implements the RTMP state machine and dispatch loop
// running over one transport connection: an explicit state machine
// plus a transaction table, with asynchronous reply correlation and a
// configurable frame-drop policy for stale media.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Config tunes a Session's flow-control defaults and drop policy.
// There is no package-level mutable state: every Session owns its own
// Config, transport, and coordinator.
type Config struct {
	// WriteChunkSize is sent to the peer via SetChunkSize right after
	// the handshake. Must be in [128, 65536]; defaults to 128 (the
	// protocol default) when zero.
	WriteChunkSize uint32

	// WriteWindowAck is the window size advertised in
	// WindowAcknowledgementSize. Defaults to 2500000 when zero.
	WriteWindowAck uint32

	// TooLateDropTimeoutMs bounds how stale a media frame may be,
	// measured against Clock, before the publisher drops it instead
	// of sending it. Zero disables dropping.
	TooLateDropTimeoutMs uint32

	// Clock supplies wall-clock time for the frame-drop deadline
	// check. Defaults to time.Now; tests may inject a fake clock.
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.WriteChunkSize == 0 {
		c.WriteChunkSize = 128
	}
	if c.WriteWindowAck == 0 {
		c.WriteWindowAck = 2500000
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// newSessionID mints a correlation id used to tag a session's log lines.
func newSessionID() string {
	return uuid.NewString()
}
