package timer

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/goodeb/polltimer-go/pkg/clock"
)

// Kind identifies the timer variant.
type Kind uint8

const (
	// KindShort is the millisecond variant, checked against the
	// wrapping tick counter.
	KindShort Kind = iota

	// KindLong is the seconds variant, checked against the absolute
	// clock.
	KindLong
)

// String returns a human-readable variant name.
func (k Kind) String() string {
	switch k {
	case KindShort:
		return "SHORT"
	case KindLong:
		return "LONG"
	default:
		return "UNKNOWN"
	}
}

// Info is a read-only snapshot of a timer for listings.
type Info struct {
	// Kind is the timer variant.
	Kind Kind

	// Armed reports whether the timer is eligible for expiration checks.
	Armed bool

	// Action identifies the bound action.
	Action string

	// Interval is the relative duration, or zero for expiration-based
	// timers (and for timers whose interval was consumed by an
	// override).
	Interval int64

	// Expiration is the current absolute deadline in the variant's
	// clock domain.
	Expiration int64
}

// String renders the multi-line diagnostic form used by listings.
func (i Info) String() string {
	return fmt.Sprintf(" Type:%s\n  Is set:%t\n  Action:%s\n  Interval:%d\n  Expiration:%d",
		i.Kind, i.Armed, i.Action, i.Interval, i.Expiration)
}

// timer is the variant contract. The Registry owns every instance and
// serializes all access under its own lock; implementations hold no
// locks of their own.
type timer interface {
	// start arms the timer, re-anchoring an interval-based deadline to
	// now. Idempotent.
	start()

	// stop disarms the timer. Safe to call when already stopped.
	stop()

	// armed reports eligibility for expiration checks.
	armed() bool

	// expired reports whether the deadline has been reached. It ignores
	// the armed flag; the dispatcher combines the two.
	expired() bool

	// override moves the deadline to now+delta and consumes any
	// interval. It does not change the armed flag. A delta that cannot
	// be represented in the variant's deadline domain is rejected and
	// the schedule kept.
	override(delta int64) error

	// binding returns the bound action and its bound arguments.
	binding() (Action, any)

	// info snapshots the timer state for listings and logging.
	info() Info
}

// newTimer constructs the variant selected by cfg.Long.
func newTimer(clk clock.Clock, cfg Config) (timer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Long {
		return newLongTimer(clk, cfg), nil
	}
	return newShortTimer(clk, cfg), nil
}

// timerBase carries the variant-independent state.
type timerBase struct {
	act        Action
	actionName string
	args       any
	isSet      bool
}

func newTimerBase(cfg Config) timerBase {
	name := cfg.ActionName
	if name == "" {
		name = funcName(cfg.Action)
	}
	return timerBase{
		act:        cfg.Action,
		actionName: name,
		args:       cfg.Args,
		isSet:      cfg.Running,
	}
}

func (b *timerBase) stop() {
	b.isSet = false
}

func (b *timerBase) armed() bool {
	return b.isSet
}

func (b *timerBase) binding() (Action, any) {
	return b.act, b.args
}

// funcName derives a display name from the action's runtime symbol.
func funcName(fn Action) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("func@%#x", pc)
}
