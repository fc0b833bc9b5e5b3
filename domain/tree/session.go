package tree

import (
	"context"
	"fmt"
	"sync"
)

// State is the lifecycle state of an editing session.
type State int

// Session states.
const (
	// StateClean means the working forest matches the last saved snapshot.
	StateClean State = iota
	// StateDirty means local changes have been applied but not persisted.
	StateDirty
	// StateSaving means a persistence call is in flight.
	StateSaving
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PersistFunc writes a forest snapshot to durable storage.
type PersistFunc[T any] func(ctx context.Context, forest []T) error

// Session tracks one edit interaction over a forest. It keeps the last
// persisted snapshot until a save is confirmed, so a failed save leaves the
// working forest exactly as it was before the attempt.
type Session[T Node[T]] struct {
	mu      sync.Mutex
	saved   []T
	working []T
	state   State
	lastErr error
	opts    []OrderOption
}

// NewSession starts a clean session over a persisted snapshot. Options are
// applied to every Apply call.
func NewSession[T Node[T]](snapshot []T, opts ...OrderOption) (*Session[T], error) {
	if _, err := BuildIndex(snapshot); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &Session[T]{
		saved:   snapshot,
		working: snapshot,
		state:   StateClean,
		opts:    opts,
	}, nil
}

// State returns the current session state.
func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error from the last failed save, if any.
func (s *Session[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Snapshot returns the last persisted forest.
func (s *Session[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// Working returns the forest including unsaved changes.
func (s *Session[T]) Working() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working
}

// Apply reorders the working forest. On error the session is unchanged.
func (s *Session[T]) Apply(order []OrderSpec, opts ...OrderOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSessionBusy
	}
	all := append(append([]OrderOption{}, s.opts...), opts...)
	next, err := ApplyOrder(s.working, order, all...)
	if err != nil {
		return err
	}
	s.working = next
	s.state = StateDirty
	return nil
}

// Stage replaces the working forest with an edited one produced elsewhere,
// after checking that its ids are unique.
func (s *Session[T]) Stage(next []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSessionBusy
	}
	if _, err := BuildIndex(next); err != nil {
		return err
	}
	s.working = next
	s.state = StateDirty
	return nil
}

// Revert discards unsaved changes.
func (s *Session[T]) Revert() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSessionBusy
	}
	s.working = s.saved
	s.state = StateClean
	s.lastErr = nil
	return nil
}

// Save persists the working forest. A clean session is a no-op. On failure
// the session returns to Dirty with the error recorded and the working
// forest retained; on success the working forest becomes the snapshot.
func (s *Session[T]) Save(ctx context.Context, persist PersistFunc[T]) error {
	s.mu.Lock()
	switch s.state {
	case StateClean:
		s.mu.Unlock()
		return nil
	case StateSaving:
		s.mu.Unlock()
		return ErrSessionBusy
	}
	pending := s.working
	s.state = StateSaving
	s.mu.Unlock()

	err := persist(ctx, pending)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateDirty
		s.lastErr = err
		return fmt.Errorf("save forest: %w", err)
	}
	s.saved = pending
	s.state = StateClean
	s.lastErr = nil
	return nil
}
