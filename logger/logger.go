// Package logger provides the structured, level-colored logger used
// throughout rtmp/session and rtmp/transport: a small Logger with
// pluggable Destinations.
package logger

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/gookit/color"
)

// Level is a log severity.
type Level int

// Levels, ordered least to most severe.
const (
	Debug Level = iota
	Info
	Warn
	Error
)

// Destination is a log sink. Only DestinationStdout is implemented in
// this module; the type leaves room for a host application to add
// file or syslog destinations without this package depending on them.
type Destination int

// Destinations.
const (
	DestinationStdout Destination = iota
)

type sink interface {
	log(t time.Time, level Level, format string, args ...interface{})
}

// Logger writes leveled, optionally colored log lines to one or more
// destinations, guarded by a mutex since rtmp/session's message pump
// and caller goroutines may log concurrently.
type Logger struct {
	level        Level
	destinations []sink
	mutex        sync.Mutex
}

// New allocates a Logger at the given minimum level, writing to each
// requested destination.
func New(level Level, destinations ...Destination) *Logger {
	lh := &Logger{level: level}

	for _, d := range destinations {
		switch d { //nolint:gocritic
		case DestinationStdout:
			lh.destinations = append(lh.destinations, newStdoutSink())
		}
	}

	return lh
}

// Log writes one leveled log entry, formatted like fmt.Sprintf, to
// every configured destination. Entries below the logger's level are
// dropped without formatting the arguments.
func (lh *Logger) Log(level Level, format string, args ...interface{}) {
	if level < lh.level {
		return
	}

	lh.mutex.Lock()
	defer lh.mutex.Unlock()

	t := time.Now()
	for _, dest := range lh.destinations {
		dest.log(t, level, format, args...)
	}
}

// LogByteCount writes a Debug-level line reporting a human-readable
// byte count, e.g. for acknowledgement-window or chunk-size bookkeeping.
func (lh *Logger) LogByteCount(format string, count uint64) {
	lh.Log(Debug, format, bytefmt.ByteSize(count))
}

func itoa(buf *bytes.Buffer, i, wid int) {
	var b [20]byte
	bp := len(b) - 1
	for i >= 10 || wid > 1 {
		wid--
		q := i / 10
		b[bp] = byte('0' + i - q*10)
		bp--
		i = q
	}
	b[bp] = byte('0' + i)
	buf.Write(b[bp:])
}

func writeTime(buf *bytes.Buffer, t time.Time, useColor bool) {
	var tb bytes.Buffer
	year, month, day := t.Date()
	itoa(&tb, year, 4)
	tb.WriteByte('/')
	itoa(&tb, int(month), 2)
	tb.WriteByte('/')
	itoa(&tb, day, 2)
	tb.WriteByte(' ')

	hour, min, sec := t.Clock()
	itoa(&tb, hour, 2)
	tb.WriteByte(':')
	itoa(&tb, min, 2)
	tb.WriteByte(':')
	itoa(&tb, sec, 2)
	tb.WriteByte(' ')

	if useColor {
		buf.WriteString(color.RenderString(color.Gray.Code(), tb.String()))
	} else {
		buf.WriteString(tb.String())
	}
}

func writeLevel(buf *bytes.Buffer, level Level, useColor bool) {
	var tag string
	var c color.Color

	switch level {
	case Debug:
		tag, c = "DEB", color.Debug
	case Info:
		tag, c = "INF", color.Green
	case Warn:
		tag, c = "WAR", color.Warn
	case Error:
		tag, c = "ERR", color.Error
	}

	if useColor {
		buf.WriteString(color.RenderString(c.Code(), tag))
	} else {
		buf.WriteString(tag)
	}
	buf.WriteByte(' ')
}

func writeContent(buf *bytes.Buffer, format string, args []interface{}) {
	fmt.Fprintf(buf, format, args...)
	buf.WriteByte('\n')
}
