package timer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by Setup when a Config cannot produce a
// working timer.
var ErrInvalidConfig = errors.New("invalid timer config")

// ErrInvalidDelta is returned by OverrideExpiration when the delta
// cannot be represented in the timer's deadline domain.
var ErrInvalidDelta = errors.New("invalid override delta")

// Config describes a timer at setup time.
//
// Exactly one of Interval and Expiration drives the deadline; when both
// are set, Interval wins. Units follow the variant: milliseconds for
// short timers, seconds for long timers.
type Config struct {
	// Interval is the relative duration until firing, re-anchored to
	// "now" on every Start. Zero means unset.
	Interval int64

	// Expiration is the absolute fire time, fixed at setup.
	// Ignored when Interval is set. Zero means unset.
	Expiration int64

	// Action is invoked when the timer fires. Required.
	Action Action

	// ActionName is an optional display name for listings. When empty,
	// the action function's runtime name is shown instead.
	ActionName string

	// Args are bound to the action at setup time and expanded
	// positionally at fire time.
	Args any

	// Long selects the seconds-domain variant. The millisecond short
	// variant is the default.
	Long bool

	// Running arms the timer immediately instead of waiting for Start.
	Running bool
}

// validate reports whether the config can produce a working timer.
func (c *Config) validate() error {
	if c.Action == nil {
		return fmt.Errorf("%w: no action", ErrInvalidConfig)
	}
	if c.Interval == 0 && c.Expiration == 0 {
		return fmt.Errorf("%w: neither interval nor expiration set", ErrInvalidConfig)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: negative interval %d", ErrInvalidConfig, c.Interval)
	}
	if c.Expiration < 0 {
		return fmt.Errorf("%w: negative expiration %d", ErrInvalidConfig, c.Expiration)
	}
	// Short deadlines live in uint32 tick space; a value past the range
	// would silently truncate on conversion.
	if !c.Long {
		if c.Interval > math.MaxUint32 {
			return fmt.Errorf("%w: interval %d exceeds the millisecond tick range", ErrInvalidConfig, c.Interval)
		}
		if c.Expiration > math.MaxUint32 {
			return fmt.Errorf("%w: expiration %d exceeds the millisecond tick range", ErrInvalidConfig, c.Expiration)
		}
	}
	return nil
}
