// Package testutil provides deterministic stand-ins for the client's
// clock and ID generator, so store-backed tests produce identical
// records on every run.
package testutil

import "sync"

// Clock is a thread-safe deterministic clock. It starts at a fixed
// epoch and only moves when a test advances it, so created_at fields
// are stable across runs.
type Clock struct {
	mu  sync.Mutex
	now int64
}

// NewClock creates a clock frozen at the given unix time.
func NewClock(start int64) *Clock {
	return &Clock{now: start}
}

// Now returns the current time without advancing it. Implements
// client.Clock.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by delta seconds and returns the new
// time.
func (c *Clock) Advance(delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += delta
	return c.now
}
