package timer

import (
	"fmt"
	"math"

	"github.com/goodeb/polltimer-go/pkg/clock"
)

// shortTimer is the millisecond variant. Deadlines live in the wrapping
// uint32 tick domain and are compared with clock.TicksDiff, so a timer
// keeps firing correctly when the counter wraps between Start and Poll.
type shortTimer struct {
	timerBase
	clk        clock.Clock
	interval   uint32 // 0 = expiration-based
	expiration uint32
	stale      bool // absolute deadline had already passed at setup
}

// newShortTimer builds the millisecond variant. Interval timers get an
// initial deadline anchored at construction so a pre-armed (Running)
// timer has a meaningful expiration before its first Start.
func newShortTimer(clk clock.Clock, cfg Config) *shortTimer {
	t := &shortTimer{
		timerBase: newTimerBase(cfg),
		clk:       clk,
	}
	if cfg.Interval > 0 {
		t.interval = uint32(cfg.Interval)
		t.expiration = clk.Ticks() + t.interval
	} else {
		t.expiration = uint32(cfg.Expiration)
		// An absolute deadline that has already passed never fires;
		// there is no backfill. A deadline equal to now is still ahead
		// of the next poll and stays live.
		t.stale = clock.TicksDiff(clk.Ticks(), t.expiration) > 0
	}
	return t
}

func (t *shortTimer) start() {
	if t.interval > 0 {
		t.expiration = t.clk.Ticks() + t.interval
	}
	t.isSet = true
}

func (t *shortTimer) expired() bool {
	if t.stale {
		return false
	}
	return clock.TicksDiff(t.clk.Ticks(), t.expiration) >= 0
}

func (t *shortTimer) override(delta int64) error {
	if delta < 0 || delta > math.MaxUint32 {
		return fmt.Errorf("%w: %d outside the millisecond tick range", ErrInvalidDelta, delta)
	}
	t.expiration = t.clk.Ticks() + uint32(delta)
	// The override replaces the schedule outright: a later Start keeps
	// this deadline instead of re-anchoring the old interval.
	t.interval = 0
	t.stale = false
	return nil
}

func (t *shortTimer) info() Info {
	return Info{
		Kind:       KindShort,
		Armed:      t.isSet,
		Action:     t.actionName,
		Interval:   int64(t.interval),
		Expiration: int64(t.expiration),
	}
}

// Compile-time interface satisfaction check.
var _ timer = (*shortTimer)(nil)
