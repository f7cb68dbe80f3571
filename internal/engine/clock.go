package engine

import "sync/atomic"

// Clock is the round-trip counter shared by an engine and anyone watching
// it. Completed is the number of finished round trips and also the index
// of the one in progress.
type Clock struct {
	completed atomic.Int64
}

// NewClock returns a clock that has already counted start round trips;
// pass 0 for a fresh cavity or the stored count to resume one.
func NewClock(start int64) *Clock {
	c := new(Clock)
	c.completed.Store(start)
	return c
}

// Complete records one finished round trip and returns the new count.
func (c *Clock) Complete() int64 { return c.completed.Add(1) }

// Completed returns the number of finished round trips.
func (c *Clock) Completed() int64 { return c.completed.Load() }
