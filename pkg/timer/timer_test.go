package timer

import (
	"errors"
	"math"
	"testing"

	"github.com/goodeb/polltimer-go/pkg/clock"
)

// newTestRegistry returns a registry on a manual clock for
// deterministic expiry checks.
func newTestRegistry() (*Registry, *clock.ManualClock) {
	clk := clock.NewManualClock()
	return NewRegistry(clk), clk
}

func TestShortTimerNoEarlyFire(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 100, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceTicks(99)
	reg.Poll()

	if fired != 0 {
		t.Errorf("fired %d times before expiration, want 0", fired)
	}
}

func TestShortTimerFiresOnceAndDisarms(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 100, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceTicks(100)
	reg.Poll()

	if fired != 1 {
		t.Fatalf("fired %d times at expiration, want 1", fired)
	}

	// Disarmed: further polls never fire.
	clk.AdvanceTicks(500)
	reg.Poll()
	reg.Poll()

	if fired != 1 {
		t.Errorf("fired %d times after one-shot, want 1", fired)
	}
	for name, info := range reg.List() {
		if name == "t" && info.Armed {
			t.Error("timer still armed after firing")
		}
	}
}

func TestShortTimerUnstartedNeverFires(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 10, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	clk.AdvanceTicks(1000)
	reg.Poll()

	if fired != 0 {
		t.Errorf("disarmed timer fired %d times, want 0", fired)
	}
}

func TestShortTimerWraparound(t *testing.T) {
	reg, clk := newTestRegistry()

	// Anchor the deadline just below the wrap boundary, then let the
	// counter wrap past it.
	clk.SetTicks(math.MaxUint32 - 5)

	fired := 0
	if err := reg.Setup("t", Config{Interval: 10, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceTicks(8) // now = 2 after wrap, deadline = 4
	reg.Poll()
	if fired != 0 {
		t.Fatalf("fired %d times before wrapped deadline, want 0", fired)
	}

	clk.AdvanceTicks(8) // now = 10, past the wrapped deadline
	reg.Poll()
	if fired != 1 {
		t.Errorf("fired %d times past wrapped deadline, want 1", fired)
	}
}

func TestShortTimerStartReanchors(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 100, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Re-anchor halfway through: the old deadline must not count.
	clk.AdvanceTicks(60)
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceTicks(60)
	reg.Poll()
	if fired != 0 {
		t.Fatalf("fired %d times before re-anchored deadline, want 0", fired)
	}

	clk.AdvanceTicks(40)
	reg.Poll()
	if fired != 1 {
		t.Errorf("fired %d times at re-anchored deadline, want 1", fired)
	}
}

func TestLongTimerFires(t *testing.T) {
	reg, clk := newTestRegistry()
	clk.SetNow(1_000_000)

	fired := 0
	if err := reg.Setup("t", Config{Interval: 30, Long: true, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceSeconds(29)
	reg.Poll()
	if fired != 0 {
		t.Fatalf("fired %d times before expiration, want 0", fired)
	}

	clk.AdvanceSeconds(1)
	reg.Poll()
	if fired != 1 {
		t.Errorf("fired %d times at expiration, want 1", fired)
	}
}

func TestLongTimerAbsoluteExpiration(t *testing.T) {
	reg, clk := newTestRegistry()
	clk.SetNow(500)

	fired := 0
	if err := reg.Setup("t", Config{Expiration: 600, Long: true, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Start must not re-anchor an absolute deadline.
	clk.SetNow(599)
	reg.Poll()
	if fired != 0 {
		t.Fatalf("fired %d times before absolute deadline, want 0", fired)
	}

	clk.SetNow(600)
	reg.Poll()
	if fired != 1 {
		t.Errorf("fired %d times at absolute deadline, want 1", fired)
	}
}

func TestPastExpirationNeverFires(t *testing.T) {
	tests := []struct {
		name string
		long bool
	}{
		{"Short", false},
		{"Long", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, clk := newTestRegistry()
			clk.SetTicks(10_000)
			clk.SetNow(10_000)

			fired := 0
			err := reg.Setup("t", Config{Expiration: 5_000, Long: tt.long, Action: func(...any) { fired++ }})
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			if err := reg.Start("t"); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			reg.Poll()
			clk.AdvanceTicks(1_000)
			clk.AdvanceSeconds(1_000)
			reg.Poll()

			if fired != 0 {
				t.Errorf("stale timer fired %d times, want 0", fired)
			}
		})
	}
}

func TestOverrideExpiration(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 1_000, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Pull the deadline in; advancing by exactly delta must fire.
	if err := reg.OverrideExpiration("t", 50); err != nil {
		t.Fatalf("OverrideExpiration() error = %v", err)
	}

	clk.AdvanceTicks(50)
	reg.Poll()

	if fired != 1 {
		t.Errorf("fired %d times at overridden deadline, want 1", fired)
	}
}

func TestOverrideDoesNotArm(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 100, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if err := reg.OverrideExpiration("t", 10); err != nil {
		t.Fatalf("OverrideExpiration() error = %v", err)
	}

	clk.AdvanceTicks(20)
	reg.Poll()

	if fired != 0 {
		t.Errorf("override armed the timer: fired %d times, want 0", fired)
	}
}

func TestOverrideConsumesInterval(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 100, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.OverrideExpiration("t", 500); err != nil {
		t.Fatalf("OverrideExpiration() error = %v", err)
	}

	// A later Start keeps the overridden deadline instead of silently
	// reviving the original interval.
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceTicks(100)
	reg.Poll()
	if fired != 0 {
		t.Fatalf("fired %d times at the consumed interval, want 0", fired)
	}

	clk.AdvanceTicks(400)
	reg.Poll()
	if fired != 1 {
		t.Errorf("fired %d times at the overridden deadline, want 1", fired)
	}
}

func TestIntervalWinsOverExpiration(t *testing.T) {
	reg, clk := newTestRegistry()
	clk.SetTicks(100)

	fired := 0
	err := reg.Setup("t", Config{Interval: 50, Expiration: 10_000, Action: func(...any) { fired++ }})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceTicks(50)
	reg.Poll()

	if fired != 1 {
		t.Errorf("fired %d times at the interval deadline, want 1", fired)
	}
}

func TestRunningStartsArmed(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 25, Running: true, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	clk.AdvanceTicks(25)
	reg.Poll()

	if fired != 1 {
		t.Errorf("running timer fired %d times without Start, want 1", fired)
	}
}

func TestStopIdempotent(t *testing.T) {
	reg, _ := newTestRegistry()

	if err := reg.Setup("t", Config{Interval: 10, Action: func(...any) {}}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if err := reg.Stop("t"); err != nil {
		t.Errorf("Stop() on stopped timer error = %v, want nil", err)
	}
	if err := reg.Stop("t"); err != nil {
		t.Errorf("second Stop() error = %v, want nil", err)
	}
}

func TestSetupInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"NoAction", Config{Interval: 10}},
		{"NoDeadline", Config{Action: func(...any) {}}},
		{"NegativeInterval", Config{Interval: -1, Action: func(...any) {}}},
		{"NegativeExpiration", Config{Expiration: -1, Action: func(...any) {}}},
		{"ShortIntervalPastTickRange", Config{Interval: 1<<32 + 100, Action: func(...any) {}}},
		{"ShortIntervalExactWrap", Config{Interval: 1 << 32, Action: func(...any) {}}},
		{"ShortExpirationPastTickRange", Config{Expiration: 1 << 32, Action: func(...any) {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry()

			err := reg.Setup("t", tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Setup() error = %v, want ErrInvalidConfig", err)
			}
			// No partial entry is left behind.
			if reg.Len() != 0 {
				t.Errorf("Len() = %d after failed Setup, want 0", reg.Len())
			}
		})
	}
}

// The seconds domain has the full int64 range; only the millisecond
// variant is bounded by the tick counter.
func TestLongTimerAcceptsWideInterval(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	err := reg.Setup("t", Config{Interval: 1<<32 + 100, Long: true, Action: func(...any) { fired++ }})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clk.AdvanceSeconds(1<<32 + 100)
	reg.Poll()

	if fired != 1 {
		t.Errorf("fired %d times at the wide deadline, want 1", fired)
	}
}

func TestOverrideDeltaOutOfRange(t *testing.T) {
	reg, clk := newTestRegistry()

	fired := 0
	if err := reg.Setup("t", Config{Interval: 100, Action: func(...any) { fired++ }}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := reg.Setup("l", Config{Interval: 100, Long: true, Action: func(...any) {}}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	cases := map[string]func() error{
		"ShortPastTickRange": func() error { return reg.OverrideExpiration("t", 1<<32+100) },
		"ShortExactWrap":     func() error { return reg.OverrideExpiration("t", 1<<32) },
		"ShortNegative":      func() error { return reg.OverrideExpiration("t", -1) },
		"LongNegative":       func() error { return reg.OverrideExpiration("l", -1) },
	}
	for name, op := range cases {
		if err := op(); !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("%s error = %v, want ErrInvalidDelta", name, err)
		}
	}

	// The rejected override left the schedule alone: the original
	// interval still drives the deadline.
	if err := reg.Start("t"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	clk.AdvanceTicks(100)
	reg.Poll()
	if fired != 1 {
		t.Errorf("fired %d times at the original interval, want 1", fired)
	}
}

func TestOperationsOnUnknownName(t *testing.T) {
	reg, _ := newTestRegistry()

	ops := map[string]func() error{
		"Start":              func() error { return reg.Start("ghost") },
		"Stop":               func() error { return reg.Stop("ghost") },
		"Trigger":            func() error { return reg.Trigger("ghost") },
		"OverrideExpiration": func() error { return reg.OverrideExpiration("ghost", 10) },
		"Remove":             func() error { return reg.Remove("ghost") },
	}

	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrTimerNotFound) {
			t.Errorf("%s on unknown name error = %v, want ErrTimerNotFound", name, err)
		}
	}
}
