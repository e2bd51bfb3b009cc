// Package rtmperrs defines the error taxonomy shared by the flv and rtmp
// packages. Each kind is a distinct type so callers can branch on the
// failure class with errors.As instead of matching error strings.
package rtmperrs

import "fmt"

// IoTransportError wraps an underlying socket or TLS I/O failure.
type IoTransportError struct {
	Op  string
	Err error
}

func (e *IoTransportError) Error() string {
	return fmt.Sprintf("io transport error during %s: %v", e.Op, e.Err)
}

func (e *IoTransportError) Unwrap() error { return e.Err }

// HandshakeFailureError reports a version mismatch or echo mismatch.
type HandshakeFailureError struct {
	Reason string
}

func (e *HandshakeFailureError) Error() string {
	return fmt.Sprintf("handshake failure: %s", e.Reason)
}

// FramingError reports a malformed chunk header, unexpected EOF mid
// message, or invalid chunk size. Framing errors are always fatal to
// the session that raised them.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error: %s", e.Reason)
}

// ProtocolError reports an invalid message type, invalid enum value,
// or contradictory header bits.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

// CodecError reports an FLV tag decode inconsistency, NAL-unit
// detection failure, or multitrack arity violation.
type CodecError struct {
	Reason string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec error: %s", e.Reason)
}

// UnsupportedCodecError reports an unknown FourCC or SoundFormat,
// either at outbound construction time or at decode time.
type UnsupportedCodecError struct {
	FourCC string
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("unsupported codec: %s", e.FourCC)
}

// RemoteCommand carries the offending command when the peer replies
// with _error or onStatus level="error".
type RemoteCommand struct {
	Name   string
	Reason string
}

// RemoteCommandError is returned to the single awaiter of the failing
// transaction.
type RemoteCommandError struct {
	Command RemoteCommand
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("remote command %q failed: %s", e.Command.Name, e.Command.Reason)
}

// TimeoutDropError reports that a frame's deadline elapsed before it
// could be sent. The session's WriteAudio/WriteVideo drop stale frames
// and return nil, so no code in this module returns this type.
type TimeoutDropError struct {
	TimestampMs int64
	DeadlineMs  int64
}

func (e *TimeoutDropError) Error() string {
	return fmt.Sprintf("frame with timestamp %dms dropped, deadline %dms had passed",
		e.TimestampMs, e.DeadlineMs)
}

// CancelledError is delivered to every outstanding awaiter when a
// session closes, optionally chaining the fatal error that caused it.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cancelled: %v", e.Cause)
	}
	return "cancelled"
}

func (e *CancelledError) Unwrap() error { return e.Cause }
