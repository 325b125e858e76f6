package clock

import "sync"

// ManualClock is a Clock whose readings change only when told to.
// It is the deterministic time source for tests and for simulation
// hosts that step time themselves between polls.
// The zero value is usable and reads as tick 0, second 0.
type ManualClock struct {
	mu    sync.Mutex
	ticks uint32
	now   int64
}

// NewManualClock creates a ManualClock at tick 0, second 0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Ticks returns the current tick reading.
func (c *ManualClock) Ticks() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Now returns the current seconds reading.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SetTicks sets the tick counter to an absolute value.
func (c *ManualClock) SetTicks(t uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = t
}

// AdvanceTicks moves the tick counter forward by ms milliseconds.
// The counter wraps naturally at the uint32 boundary.
func (c *ManualClock) AdvanceTicks(ms uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks += ms
}

// SetNow sets the seconds clock to an absolute value.
func (c *ManualClock) SetNow(sec int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = sec
}

// AdvanceSeconds moves the seconds clock forward by sec seconds.
func (c *ManualClock) AdvanceSeconds(sec int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += sec
}

// Compile-time interface satisfaction check.
var _ Clock = (*ManualClock)(nil)
