// Package optimistic implements the optimistic-update pattern used by the
// like, save and follow actions: the displayed state changes immediately,
// the server call runs, and the change is reverted if the call fails.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when a request for the same toggle is still
// running. The second request is dropped and state is left untouched.
var ErrInFlight = errors.New("request already in flight")

// State is what a toggle displays
type State struct {
	Active bool
	Count  int
}

// CommitFunc persists the new active value
type CommitFunc func(ctx context.Context, active bool) error

// Toggle is an on/off state with a counter, such as "liked" plus the like
// count. It is safe for concurrent use.
type Toggle struct {
	mu       sync.Mutex
	state    State
	inFlight bool
}

// NewToggle returns a toggle showing the given state
func NewToggle(active bool, count int) *Toggle {
	if count < 0 {
		count = 0
	}
	return &Toggle{state: State{Active: active, Count: count}}
}

// Snapshot returns the displayed state
func (t *Toggle) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// InFlight reports whether a commit is running
func (t *Toggle) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Set overwrites the state with server truth. It is ignored while a
// commit is running so a stale refresh cannot clobber the optimistic value.
func (t *Toggle) Set(active bool, count int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight {
		return false
	}
	if count < 0 {
		count = 0
	}
	t.state = State{Active: active, Count: count}
	return true
}

// Flip inverts the toggle and commits it
func (t *Toggle) Flip(ctx context.Context, commit CommitFunc) (State, error) {
	return t.apply(ctx, func(s State) bool { return !s.Active }, commit)
}

// Activate commits active=true; it is a no-op if already active
func (t *Toggle) Activate(ctx context.Context, commit CommitFunc) (State, error) {
	return t.apply(ctx, func(State) bool { return true }, commit)
}

// Deactivate commits active=false; it is a no-op if already inactive
func (t *Toggle) Deactivate(ctx context.Context, commit CommitFunc) (State, error) {
	return t.apply(ctx, func(State) bool { return false }, commit)
}

// apply picks the target from the current state in the same critical
// section that claims the in-flight flag
func (t *Toggle) apply(ctx context.Context, target func(State) bool, commit CommitFunc) (State, error) {
	t.mu.Lock()
	if t.inFlight {
		s := t.state
		t.mu.Unlock()
		return s, ErrInFlight
	}
	active := target(t.state)
	if t.state.Active == active {
		s := t.state
		t.mu.Unlock()
		return s, nil
	}

	prev := t.state
	t.state.Active = active
	if active {
		t.state.Count++
	} else if t.state.Count > 0 {
		t.state.Count--
	}
	t.inFlight = true
	t.mu.Unlock()

	err := commit(ctx, active)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
	if err != nil {
		t.state = prev
		return t.state, err
	}
	return t.state, nil
}
