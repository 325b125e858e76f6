// Package timer implements cooperative, poll-driven software timers.
//
// The package targets hosts without OS-level timer interrupts: embedded
// interpreters, single-threaded event loops, simulation drivers. There
// is no background scheduler. Callers register named timers with a
// Registry and invoke Poll from their own loop; timers whose deadline
// has passed by that moment fire their bound action synchronously.
// Firing precision is therefore bounded by the caller's poll cadence.
//
// # Variants
//
// Short timers measure milliseconds against a bounded, wrapping tick
// counter and compare deadlines with wraparound-safe signed-difference
// arithmetic. Long timers measure seconds against the absolute clock
// and use a plain comparison. The variant is chosen at setup time via
// Config.Long and never changes.
//
// # Deadlines
//
// A timer is driven either by an interval (relative, re-anchored to
// "now" on every Start) or by an expiration (absolute, fixed at setup).
// OverrideExpiration moves the deadline to now+delta and consumes any
// interval, so a later Start keeps the overridden deadline.
//
// # One-Shot Firing and Repeating Timers
//
// Timers are one shot: the dispatcher disarms a timer before invoking
// its action. A repeating timer is simply a one-shot timer whose action
// calls Start on its own name again. Actions may call back into the
// Registry freely, on any timer including their own, from within their
// firing; the Registry guarantees at most one fire per timer per poll
// pass regardless.
//
// # Actions
//
// Actions are concrete Go callbacks bound at setup time. Arguments
// bound via Config.Args expand positionally at fire time: absent means
// a zero-argument call, a []any expands one argument per element, and
// any other value is passed as a single argument. For definition-file
// driven setup an ActionSet maps registered names to callbacks; the
// Registry itself never performs name-based lookup.
//
// # Concurrency
//
// A Registry is safe for concurrent use, but all timing progress still
// happens only inside Poll. Actions run on the polling goroutine with
// the registry lock released. Stop prevents future automatic firing; it
// does not interrupt an action already in progress.
package timer
