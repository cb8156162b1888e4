// Package framerate averages frame times over a fixed window.
package framerate

import (
	"time"
)

// MaxDelta caps a single frame's delta so a long stall (tab hidden, window
// dragged) does not produce one huge step.
const MaxDelta = 100 * time.Millisecond

// Counter tracks frame deltas in a ring buffer and keeps their running mean.
type Counter struct {
	now     func() time.Time
	last    time.Time
	buffer  []time.Duration
	sum     time.Duration
	pos     int
	onClamp func(time.Duration)
}

// NewCounter creates a counter averaging over size frames. The buffer starts
// full of MaxDelta so the first readings err low rather than high.
func NewCounter(size int) *Counter {
	return newCounter(size, time.Now)
}

func newCounter(size int, now func() time.Time) *Counter {
	if size <= 0 {
		panic("framerate: buffer size must be positive")
	}
	c := &Counter{
		now:    now,
		buffer: make([]time.Duration, size),
	}
	for i := range c.buffer {
		c.buffer[i] = MaxDelta
	}
	c.sum = MaxDelta * time.Duration(size)
	c.last = now()
	return c
}

// OnClamp registers a callback invoked with the raw delta whenever it
// exceeds MaxDelta.
func (c *Counter) OnClamp(fn func(time.Duration)) {
	c.onClamp = fn
}

// Tick records a frame and returns its (capped) delta.
func (c *Counter) Tick() time.Duration {
	now := c.now()
	delta := now.Sub(c.last)
	c.last = now

	if delta > MaxDelta {
		if c.onClamp != nil {
			c.onClamp(delta)
		}
		delta = MaxDelta
	}
	if delta < 0 {
		delta = 0
	}

	c.sum += delta - c.buffer[c.pos]
	c.buffer[c.pos] = delta
	c.pos = (c.pos + 1) % len(c.buffer)
	return delta
}

// Mean returns the average frame delta over the window.
func (c *Counter) Mean() time.Duration {
	return c.sum / time.Duration(len(c.buffer))
}

// FPS returns frames per second derived from the mean delta.
func (c *Counter) FPS() float64 {
	mean := c.Mean()
	if mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(mean)
}
