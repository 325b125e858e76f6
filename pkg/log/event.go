package log

import "time"

// Event is one timer lifecycle record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RegistryID uniquely identifies the emitting registry (UUID).
	RegistryID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// Timer is the timer name the event concerns.
	Timer string `cbor:"4,keyasint"`

	// Kind is the timer variant name ("SHORT" or "LONG").
	Kind string `cbor:"5,keyasint,omitempty"`

	// Armed is the armed state after the operation.
	Armed bool `cbor:"6,keyasint,omitempty"`

	// Interval is the timer's relative duration, if any.
	Interval int64 `cbor:"7,keyasint,omitempty"`

	// Expiration is the timer's absolute deadline in its clock domain.
	Expiration int64 `cbor:"8,keyasint,omitempty"`
}

// Category classifies a timer lifecycle event.
type Category uint8

const (
	// CategorySetup records a timer being created or replaced.
	CategorySetup Category = iota

	// CategoryStart records a timer being armed.
	CategoryStart

	// CategoryStop records a timer being disarmed.
	CategoryStop

	// CategoryFire records an expired timer invoking its action.
	CategoryFire

	// CategoryTrigger records an action being forced ahead of its
	// deadline.
	CategoryTrigger

	// CategoryOverride records a deadline being rewritten.
	CategoryOverride

	// CategoryRemove records a timer leaving the registry.
	CategoryRemove
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySetup:
		return "SETUP"
	case CategoryStart:
		return "START"
	case CategoryStop:
		return "STOP"
	case CategoryFire:
		return "FIRE"
	case CategoryTrigger:
		return "TRIGGER"
	case CategoryOverride:
		return "OVERRIDE"
	case CategoryRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}
