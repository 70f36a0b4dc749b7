package engine

import "sync/atomic"

// TickCounter is the monotonic host tick, advanced only by the loop
// Readable from any goroutine
type TickCounter struct {
	ticks atomic.Int64
}

// Tick returns the current tick
func (c *TickCounter) Tick() int64 {
	return c.ticks.Load()
}

// Advance moves to the next tick and returns it
func (c *TickCounter) Advance() int64 {
	return c.ticks.Add(1)
}
