package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureSink struct {
	lines []string
}

func (c *captureSink) log(t time.Time, level Level, format string, args ...interface{}) {
	var buf bytes.Buffer
	writeContent(&buf, format, args)
	c.lines = append(c.lines, buf.String())
}

func TestLogDropsBelowLevel(t *testing.T) {
	sink1 := &captureSink{}
	lh := &Logger{level: Warn, destinations: []sink{sink1}}

	lh.Log(Info, "should not appear")
	lh.Log(Error, "should appear: %d", 42)

	require.Len(t, sink1.lines, 1)
	require.Equal(t, "should appear: 42\n", sink1.lines[0])
}

func TestLogByteCountFormatsHumanReadable(t *testing.T) {
	sink1 := &captureSink{}
	lh := &Logger{level: Debug, destinations: []sink{sink1}}

	lh.LogByteCount("received %s", 2*1024*1024)

	require.Len(t, sink1.lines, 1)
	require.Contains(t, sink1.lines[0], "M")
}

func TestNewWiresStdoutDestination(t *testing.T) {
	lh := New(Info, DestinationStdout)
	require.Len(t, lh.destinations, 1)
}
