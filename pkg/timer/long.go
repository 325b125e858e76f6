package timer

import (
	"fmt"

	"github.com/goodeb/polltimer-go/pkg/clock"
)

// longTimer is the seconds variant. The clock range vastly exceeds any
// timer lifetime, so deadlines are plain int64 comparisons with no
// wraparound handling.
type longTimer struct {
	timerBase
	clk        clock.Clock
	interval   int64 // 0 = expiration-based
	expiration int64
	stale      bool // absolute deadline had already passed at setup
}

func newLongTimer(clk clock.Clock, cfg Config) *longTimer {
	t := &longTimer{
		timerBase: newTimerBase(cfg),
		clk:       clk,
	}
	if cfg.Interval > 0 {
		t.interval = cfg.Interval
		t.expiration = clk.Now() + t.interval
	} else {
		t.expiration = cfg.Expiration
		// No backfill for deadlines already in the past. A deadline
		// equal to now is still ahead of the next poll and stays live.
		t.stale = clk.Now() > t.expiration
	}
	return t
}

func (t *longTimer) start() {
	if t.interval > 0 {
		t.expiration = t.clk.Now() + t.interval
	}
	t.isSet = true
}

func (t *longTimer) expired() bool {
	if t.stale {
		return false
	}
	return t.clk.Now() >= t.expiration
}

func (t *longTimer) override(delta int64) error {
	if delta < 0 {
		return fmt.Errorf("%w: negative delta %d", ErrInvalidDelta, delta)
	}
	t.expiration = t.clk.Now() + delta
	// The override replaces the schedule outright, as for shortTimer.
	t.interval = 0
	t.stale = false
	return nil
}

func (t *longTimer) info() Info {
	return Info{
		Kind:       KindLong,
		Armed:      t.isSet,
		Action:     t.actionName,
		Interval:   t.interval,
		Expiration: t.expiration,
	}
}

// Compile-time interface satisfaction check.
var _ timer = (*longTimer)(nil)
