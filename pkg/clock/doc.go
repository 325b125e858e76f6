// Package clock provides the injected time source for poll-driven timers.
//
// Two time domains are exposed: a bounded, wrapping millisecond tick
// counter (the short timer domain) and an absolute seconds clock (the
// long timer domain). Nothing else in this module reads the system
// clock directly; hosts choose the implementation.
//
// # Tick Counter
//
// Ticks wrap at the uint32 boundary. Two readings must be ordered with
// TicksDiff, never with a plain comparison, because the counter is
// expected to wrap within the normal operating range of a long-lived
// host. The signed difference is correct as long as the real distance
// between the readings is under half the counter range.
//
// # Implementations
//
//   - SystemClock: production implementation backed by the time package.
//     Ticks are derived from a monotonic origin captured at construction.
//   - ManualClock: readings advance only when told to. For tests and for
//     simulation hosts that drive time themselves.
package clock
