// Package bytecounter provides byte-counting reader/writer wrappers
// used to drive RTMP's acknowledgement-window flow control.
package bytecounter

import (
	"bufio"
	"io"
)

type readerInner struct {
	r        io.Reader
	count    uint32
	onRead   func(total uint32)
}

func (r *readerInner) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.count += uint32(n)
	if n > 0 && r.onRead != nil {
		r.onRead(r.count)
	}
	return n, err
}

// Reader counts read bytes and optionally notifies a callback after
// every underlying Read, so a session can raise Acknowledgement
// messages once the configured window-ack-size threshold is crossed.
type Reader struct {
	ri *readerInner
	*bufio.Reader
}

// NewReader allocates a Reader with no threshold callback.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithCallback(r, nil)
}

// NewReaderWithCallback allocates a Reader that invokes onRead with
// the running total after every successful underlying read.
func NewReaderWithCallback(r io.Reader, onRead func(total uint32)) *Reader {
	ri := &readerInner{r: r, onRead: onRead}
	return &Reader{
		ri:     ri,
		Reader: bufio.NewReader(ri),
	}
}

// Count returns the number of bytes read from the underlying source
// (not the number delivered through the buffered Reader).
func (r Reader) Count() uint32 {
	return r.ri.count
}
