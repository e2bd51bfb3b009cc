// Package transaction implements the correlation table described in
// §4.8's "Transaction coordinator" (C11): outstanding RPCs and
// stream-lifecycle onStatus callbacks are each registered under an
// await key and completed exactly once, either with a reply or with a
// cancellation error when the owning session closes.
package transaction

import (
	"strings"
	"sync"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Key identifies an outstanding await: either a numeric RPC
// transaction id or the dotted status-code prefix of an onStatus
// callback (e.g. "NetStream.Publish").
type Key struct {
	TransactionID float64
	StatusPrefix  string
}

// IDKey builds a Key for an outgoing RPC's transaction id.
func IDKey(id float64) Key { return Key{TransactionID: id} }

// StatusKey builds a Key for an onStatus status-code prefix.
func StatusKey(prefix string) Key { return Key{StatusPrefix: prefix} }

// Result is delivered to a slot's awaiter exactly once.
type Result struct {
	Value interface{}
	Err   error
}

type slot struct {
	ch   chan Result
	once sync.Once
}

func newSlot() *slot {
	return &slot{ch: make(chan Result, 1)}
}

func (s *slot) complete(r Result) {
	s.once.Do(func() {
		s.ch <- r
	})
}

// Coordinator is a shared, mutex-serialized table of outstanding
// awaits, per §4.8 and §5's "Shared resources" note.
type Coordinator struct {
	mu     sync.Mutex
	slots  map[Key]*slot
	closed bool
	cause  error
}

// New allocates an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{slots: make(map[Key]*slot)}
}

// Register creates a new await slot for key and returns a function
// that blocks until it completes. Registering an already-closed
// coordinator returns a waiter that resolves immediately with
// CancelledError.
func (c *Coordinator) Register(key Key) (wait func() (interface{}, error)) {
	c.mu.Lock()
	if c.closed {
		cause := c.cause
		c.mu.Unlock()
		return func() (interface{}, error) {
			return nil, &rtmperrs.CancelledError{Cause: cause}
		}
	}

	s := newSlot()
	c.slots[key] = s
	c.mu.Unlock()

	return func() (interface{}, error) {
		r := <-s.ch
		return r.Value, r.Err
	}
}

// Complete resolves the slot registered under key, if any. Returns
// false if no slot is (or was ever) registered for key. Duplicate
// completions of the same slot are idempotent: the first delivered
// result wins and later ones are silently dropped, per §4.8.
func (c *Coordinator) Complete(key Key, value interface{}, err error) bool {
	c.mu.Lock()
	s, ok := c.slots[key]
	if ok {
		delete(c.slots, key)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}

	s.complete(Result{Value: value, Err: err})
	return true
}

// CompleteStatusCode resolves the await registered for the longest
// matching StatusKey prefix of code (e.g. code
// "NetStream.Publish.Start" matches a slot registered under
// "NetStream.Publish"), succeeding unless level == "error".
func (c *Coordinator) CompleteStatusCode(code, level string, value interface{}) bool {
	c.mu.Lock()
	var matchKey Key
	var matchSlot *slot
	for k, s := range c.slots {
		if k.StatusPrefix == "" {
			continue
		}
		if strings.HasPrefix(code, k.StatusPrefix) && len(k.StatusPrefix) >= len(matchKey.StatusPrefix) {
			matchKey = k
			matchSlot = s
		}
	}
	if matchSlot != nil {
		delete(c.slots, matchKey)
	}
	c.mu.Unlock()

	if matchSlot == nil {
		return false
	}

	var err error
	if level == "error" {
		err = &rtmperrs.RemoteCommandError{Command: rtmperrs.RemoteCommand{Name: code, Reason: level}}
	}

	matchSlot.complete(Result{Value: value, Err: err})
	return true
}

// Close cancels every outstanding slot with a CancelledError chaining
// cause, and marks the coordinator closed so subsequent Register calls
// resolve immediately. Safe to call more than once.
func (c *Coordinator) Close(cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cause = cause
	slots := c.slots
	c.slots = make(map[Key]*slot)
	c.mu.Unlock()

	for _, s := range slots {
		s.complete(Result{Err: &rtmperrs.CancelledError{Cause: cause}})
	}
}
