package core

// Clock is a monotonic time source in seconds.
type Clock interface {
	Now() float64
}

// SimClock is a simulation clock advanced explicitly by the frame loop.
// Tests drive it directly to place events at exact times.
type SimClock struct {
	now float64
}

// NewSimClock creates a clock starting at t seconds.
func NewSimClock(t float64) *SimClock {
	return &SimClock{now: t}
}

// Now returns the current simulation time.
func (c *SimClock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by dt seconds. Negative steps are ignored.
func (c *SimClock) Advance(dt float64) {
	if dt > 0 {
		c.now += dt
	}
}

// Set jumps the clock to t.
func (c *SimClock) Set(t float64) {
	c.now = t
}
