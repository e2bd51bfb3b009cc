package logger

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/gookit/color"
)

type destinationStdout struct {
	stdout   io.Writer
	useColor bool
	buf      bytes.Buffer
}

func newStdoutSink() sink {
	return &destinationStdout{
		stdout:   os.Stdout,
		useColor: color.SupportColor(),
	}
}

func (d *destinationStdout) log(t time.Time, level Level, format string, args ...interface{}) {
	d.buf.Reset()
	writeTime(&d.buf, t, d.useColor)
	writeLevel(&d.buf, level, d.useColor)
	writeContent(&d.buf, format, args)
	d.stdout.Write(d.buf.Bytes()) //nolint:errcheck
}
