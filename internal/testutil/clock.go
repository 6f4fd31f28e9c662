package testutil

import (
	"sync"
	"time"
)

// DefaultStart is the instant a zero-configured SteppingClock starts at.
var DefaultStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// SteppingClock is a deterministic wall clock for tests and scenarios.
//
// Every call to Now returns the current instant and then advances it by
// the step, so repeated runs see identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SteppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewSteppingClock creates a clock at start that advances by step on each
// Now. A zero start means DefaultStart; a zero step freezes the clock.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	if start.IsZero() {
		start = DefaultStart
	}
	return &SteppingClock{now: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the current instant without advancing.
func (c *SteppingClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *SteppingClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
