// Package testutil provides shared test doubles.
package testutil

import (
	"sync"
	"time"
)

// FakeClock is a settable wall clock for tests that exercise time-based
// behavior (cooldowns, enqueue timestamps) without sleeping.
//
// Thread-safety: all methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock frozen at the given instant.
func NewFakeClock(at time.Time) *FakeClock {
	return &FakeClock{now: at}
}

// Now returns the current fake time. Pass c.Now as a clock function.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
