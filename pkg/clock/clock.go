package clock

import "time"

// Clock supplies the two time domains timers are checked against.
// Implementations must be safe for concurrent use.
type Clock interface {
	// Ticks returns the current value of the wrapping millisecond
	// counter. Use TicksDiff to order two readings.
	Ticks() uint32

	// Now returns the current absolute time in seconds since the Unix
	// epoch.
	Now() int64
}

// TicksDiff returns the signed millisecond difference a-b between two
// tick readings. The result orders the readings correctly across the
// wrap boundary provided their real distance is less than half the
// counter range.
func TicksDiff(a, b uint32) int32 {
	return int32(a - b)
}

// SystemClock implements Clock using the standard time package.
// The tick counter starts near zero at construction and advances with
// the monotonic clock, so it is immune to wall clock adjustments.
type SystemClock struct {
	origin time.Time
}

// NewSystemClock creates a SystemClock with its tick origin at now.
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// Ticks returns milliseconds elapsed since construction, truncated to
// the wrapping counter width.
func (c *SystemClock) Ticks() uint32 {
	return uint32(time.Since(c.origin).Milliseconds())
}

// Now returns the wall clock time in seconds since the Unix epoch.
func (c *SystemClock) Now() int64 {
	return time.Now().Unix()
}

// Compile-time interface satisfaction check.
var _ Clock = (*SystemClock)(nil)
