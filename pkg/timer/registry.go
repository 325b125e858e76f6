package timer

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goodeb/polltimer-go/pkg/clock"
	"github.com/goodeb/polltimer-go/pkg/log"
)

// ErrTimerNotFound is returned by name-keyed operations when no timer
// is registered under that name.
var ErrTimerNotFound = errors.New("timer not found")

// Registry owns the name → timer mapping and the check-all dispatch.
//
// Hosts construct a Registry explicitly and pass it to whoever needs
// it; there is no package-level instance. All methods are safe for
// concurrent use, and actions are always invoked with the registry lock
// released, so an action may call back into the Registry, including on
// its own timer, from within its firing.
type Registry struct {
	mu     sync.Mutex
	clk    clock.Clock
	logger log.Logger
	id     string
	order  []string
	timers map[string]timer
}

// RegistryConfig holds optional Registry settings.
type RegistryConfig struct {
	// Clock is the injected time source. Defaults to a fresh
	// SystemClock.
	Clock clock.Clock

	// Logger receives one event per timer state transition.
	// Defaults to NoopLogger.
	Logger log.Logger
}

// NewRegistry creates a Registry checked against the given clock.
func NewRegistry(clk clock.Clock) *Registry {
	return NewRegistryWithConfig(RegistryConfig{Clock: clk})
}

// NewRegistryWithConfig creates a Registry with custom configuration.
func NewRegistryWithConfig(cfg RegistryConfig) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewSystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	return &Registry{
		clk:    cfg.Clock,
		logger: cfg.Logger,
		id:     uuid.New().String(),
		timers: make(map[string]timer),
	}
}

// ID returns the registry's unique instance identifier, as stamped on
// every emitted log event.
func (r *Registry) ID() string {
	return r.id
}

// Setup creates the timer variant selected by cfg.Long and registers it
// under name, replacing any prior entry of that name (the replacement
// moves to the end of the listing order). A construction error leaves
// the registry unchanged.
func (r *Registry) Setup(name string, cfg Config) error {
	t, err := newTimer(r.clk, cfg)
	if err != nil {
		return fmt.Errorf("timer %q: %w", name, err)
	}

	r.mu.Lock()
	if _, exists := r.timers[name]; exists {
		r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	}
	r.timers[name] = t
	r.order = append(r.order, name)
	info := t.info()
	r.mu.Unlock()

	r.emit(log.CategorySetup, name, info)
	return nil
}

// Start arms the named timer, re-anchoring an interval-based deadline
// to now. Starting an armed timer simply re-anchors it again.
func (r *Registry) Start(name string) error {
	return r.forward(log.CategoryStart, name, func(t timer) error { t.start(); return nil })
}

// Stop disarms the named timer so it will not fire automatically.
// Stopping a stopped timer is a no-op. Stop never interrupts an action
// already in progress.
func (r *Registry) Stop(name string) error {
	return r.forward(log.CategoryStop, name, func(t timer) error { t.stop(); return nil })
}

// OverrideExpiration moves the named timer's deadline to now+delta,
// regardless of armed state and of how the timer was scheduled. Any
// interval is consumed: a later Start keeps the overridden deadline.
// The timer is not armed implicitly. A delta the timer's deadline
// domain cannot represent is rejected with ErrInvalidDelta and the
// schedule kept.
func (r *Registry) OverrideExpiration(name string, delta int64) error {
	return r.forward(log.CategoryOverride, name, func(t timer) error { return t.override(delta) })
}

// forward applies op to the named timer under the lock and emits cat
// when op succeeds.
func (r *Registry) forward(cat log.Category, name string, op func(timer) error) error {
	r.mu.Lock()
	t, ok := r.timers[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("timer %q: %w", name, ErrTimerNotFound)
	}
	if err := op(t); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("timer %q: %w", name, err)
	}
	info := t.info()
	r.mu.Unlock()

	r.emit(cat, name, info)
	return nil
}

// Trigger stops the named timer and invokes its action immediately,
// bypassing the expiration check. The timer stays registered, disarmed,
// and can be started again.
func (r *Registry) Trigger(name string) error {
	r.mu.Lock()
	t, ok := r.timers[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("timer %q: %w", name, ErrTimerNotFound)
	}
	t.stop()
	act, args := t.binding()
	info := t.info()
	r.mu.Unlock()

	r.emit(log.CategoryTrigger, name, info)
	act.invoke(args)
	return nil
}

// Remove deletes the named timer from the registry. A removed timer
// never fires again under that name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	t, ok := r.timers[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("timer %q: %w", name, ErrTimerNotFound)
	}
	delete(r.timers, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	info := t.info()
	r.mu.Unlock()

	r.emit(log.CategoryRemove, name, info)
	return nil
}

// Len returns the number of registered timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// pollEntry pins a (name, timer) pair for one poll pass.
type pollEntry struct {
	name string
	t    timer
}

// Poll checks every registered timer once, in registry order, and fires
// those whose deadline has passed: each expired timer is disarmed first
// and its action invoked after, synchronously on the calling goroutine.
//
// The pass is pinned up front, so actions may mutate the registry
// freely: a timer set up during the pass is first checked on the next
// Poll, a timer removed or replaced before its check is skipped, and a
// timer re-armed by its own action is not checked again within the same
// pass.
func (r *Registry) Poll() {
	r.mu.Lock()
	pass := make([]pollEntry, 0, len(r.order))
	for _, name := range r.order {
		pass = append(pass, pollEntry{name: name, t: r.timers[name]})
	}
	r.mu.Unlock()

	for _, e := range pass {
		r.mu.Lock()
		cur, ok := r.timers[e.name]
		if !ok || cur != e.t {
			// Removed or replaced by an action earlier in this pass.
			r.mu.Unlock()
			continue
		}
		if !cur.armed() || !cur.expired() {
			r.mu.Unlock()
			continue
		}
		cur.stop() // one shot: disarm before the action runs
		act, args := cur.binding()
		info := cur.info()
		r.mu.Unlock()

		r.emit(log.CategoryFire, e.name, info)
		act.invoke(args)
	}
}

// List returns a lazy, restartable sequence of (name, Info) pairs in
// registry order. The order is snapshotted each time the sequence is
// iterated, so a listing restarted after a mutation observes it.
func (r *Registry) List() iter.Seq2[string, Info] {
	return func(yield func(string, Info) bool) {
		r.mu.Lock()
		snap := make([]pollEntry, 0, len(r.order))
		for _, name := range r.order {
			snap = append(snap, pollEntry{name: name, t: r.timers[name]})
		}
		r.mu.Unlock()

		for _, e := range snap {
			r.mu.Lock()
			info := e.t.info()
			r.mu.Unlock()
			if !yield(e.name, info) {
				return
			}
		}
	}
}

// emit sends one lifecycle event to the configured logger.
func (r *Registry) emit(cat log.Category, name string, info Info) {
	r.logger.Log(log.Event{
		Timestamp:  time.Now(),
		RegistryID: r.id,
		Category:   cat,
		Timer:      name,
		Kind:       info.Kind.String(),
		Armed:      info.Armed,
		Interval:   info.Interval,
		Expiration: info.Expiration,
	})
}
