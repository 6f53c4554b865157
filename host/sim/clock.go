package sim

import (
	"context"
	"fmt"
	"time"
)

// DefaultRefreshRate is the display refresh rate of the simulated headset.
const DefaultRefreshRate = 72

// Clock presents frames of a session at a fixed refresh rate.
type Clock struct {
	session  *Session
	interval time.Duration
	ticks    uint64
}

// NewClock creates a clock for s at hz frames per second. A non-positive
// hz selects DefaultRefreshRate.
func NewClock(s *Session, hz int) *Clock {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	return &Clock{session: s, interval: time.Second / time.Duration(hz)}
}

// Interval returns the time between frames.
func (c *Clock) Interval() time.Duration { return c.interval }

// Step presents the next frame at its nominal time and returns how many
// callbacks ran.
func (c *Clock) Step() int {
	c.ticks++
	return c.session.Tick(time.Duration(c.ticks) * c.interval)
}

// Run steps the clock on a ticker until ctx ends, the session ends or,
// when limit > 0, limit ticks were presented.
func (c *Clock) Run(ctx context.Context, limit uint64) error {
	if c.interval <= 0 {
		return fmt.Errorf("sim: invalid clock interval %v", c.interval)
	}
	t := time.NewTicker(c.interval)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.session.Done():
			return nil
		case <-t.C:
			c.Step()
			n++
			if limit > 0 && n >= limit {
				return nil
			}
		}
	}
}
