package kernel

import "sync/atomic"

// Clock is the kernel's monotonic logical clock.
//
// Logical time advances by exactly one tick per processed event and is
// never derived from wall-clock time. This keeps event ordering and replay
// fully deterministic: the same injection sequence always yields the same
// timestamps.
//
// Thread-safety: Clock is safe for concurrent reads (atomic operations),
// though the kernel's single-threaded design means only the Run loop
// advances it.
type Clock struct {
	ticks atomic.Uint64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific tick.
// Used by replay to resume logical time from a journaled position.
func NewClockAt(start uint64) *Clock {
	c := &Clock{}
	c.ticks.Store(start)
	return c
}

// Tick advances the clock by one and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.ticks.Add(1)
}

// Current returns the current tick without advancing.
func (c *Clock) Current() uint64 {
	return c.ticks.Load()
}
