package timer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrActionNotFound is returned when an ActionSet has no action
// registered under the requested name.
var ErrActionNotFound = errors.New("action not found")

// Action is the callback a timer invokes when it fires.
// Bound arguments expand positionally: no bound args means a
// zero-argument call, a []any expands one argument per element, any
// other value is passed as a single argument.
type Action func(args ...any)

// invoke calls the action with the bound arguments expanded.
func (a Action) invoke(args any) {
	switch v := args.(type) {
	case nil:
		a()
	case []any:
		a(v...)
	default:
		a(v)
	}
}

// ActionSet maps registered names to actions for definition-file driven
// setup. Callers register concrete callbacks up front; resolution
// happens once, at setup time, never at fire time.
// An ActionSet is safe for concurrent use.
type ActionSet struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewActionSet creates an empty ActionSet.
func NewActionSet() *ActionSet {
	return &ActionSet{actions: make(map[string]Action)}
}

// Register binds name to fn in the default scope, replacing any prior
// registration under that name.
func (s *ActionSet) Register(name string, fn Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[name] = fn
}

// RegisterIn binds name to fn inside a named library scope. Definitions
// carrying a library field resolve against that scope.
func (s *ActionSet) RegisterIn(library, name string, fn Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[actionKey(library, name)] = fn
}

// Resolve looks up name, optionally qualified by library.
// Returns ErrActionNotFound when nothing is registered under that name.
func (s *ActionSet) Resolve(library, name string) (Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn, ok := s.actions[actionKey(library, name)]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", actionKey(library, name), ErrActionNotFound)
	}
	return fn, nil
}

// actionKey builds the lookup key for a possibly library-qualified name.
func actionKey(library, name string) string {
	if library == "" {
		return name
	}
	return library + "." + name
}
