package record

import (
	"sync"
	"time"
)

// DefaultTimestampLayout formats timestamps so that lexical order matches
// chronological order.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// Clock produces the timestamp strings stamped on saves.
type Clock interface {
	Now() string
}

// SystemClock formats the wall clock with Layout.
// A zero SystemClock uses DefaultTimestampLayout.
type SystemClock struct {
	Layout string
}

// Now returns the current local time formatted with the clock's layout.
func (c SystemClock) Now() string {
	layout := c.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return time.Now().Format(layout)
}

// FixedClock returns predetermined timestamps for tests.
//
// Once the list is exhausted the last timestamp is repeated, so a test that
// performs one more save than expected still gets a stable value.
//
// Thread-safety: FixedClock is safe for concurrent use via internal mutex.
type FixedClock struct {
	mu    sync.Mutex
	stamp []string
	idx   int
}

// NewFixedClock creates a clock that returns the given timestamps in order.
func NewFixedClock(stamps ...string) *FixedClock {
	return &FixedClock{stamp: stamps}
}

// Now returns the next predetermined timestamp.
func (c *FixedClock) Now() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.stamp) == 0 {
		return ""
	}
	if c.idx >= len(c.stamp) {
		return c.stamp[len(c.stamp)-1]
	}
	s := c.stamp[c.idx]
	c.idx++
	return s
}
