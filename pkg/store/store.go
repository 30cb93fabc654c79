// Package store wraps a state.GameState in an explicit, constructed
// state container. All mutations flow through one apply point that
// runs the transition atomically, persists the result, and notifies
// subscribers with an immutable snapshot. There is no package-level
// singleton: a Store is built at startup and passed to its consumers.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// Saver persists a gamestate after each applied transition. Saves are
// fire-and-forget: failures are logged and never surfaced to the
// transition's caller.
type Saver interface {
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
}

// Subscriber is invoked with a deep snapshot after every applied
// transition. Subscribers run synchronously on the dispatching
// goroutine and must not call back into the store.
type Subscriber func(*state.GameState)

// Store is the authoritative container for one game session.
type Store struct {
	mu     sync.Mutex
	gs     *state.GameState
	saver  Saver
	logger *slog.Logger

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// New creates a store around an existing gamestate. The saver may be
// nil for in-memory sessions (tests, the console's offline mode).
func New(gs *state.GameState, saver Saver, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		gs:     gs,
		saver:  saver,
		logger: logger,
		subs:   make(map[int]Subscriber),
	}
}

// Snapshot returns a deep copy of the current state. The copy shares
// nothing with the live tree, so callers can hold it across
// transitions.
func (s *Store) Snapshot() *state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gs.Clone()
}

// Subscribe registers a subscriber and returns its unsubscribe
// function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// apply is the single mutation point. The transition runs to
// completion under the store lock, so no observer sees intermediate
// state from composite operations; the snapshot taken afterwards is
// what persistence and subscribers receive.
func (s *Store) apply(ctx context.Context, transition func(*state.GameState)) {
	s.mu.Lock()
	transition(s.gs)
	snapshot := s.gs.Clone()
	s.mu.Unlock()

	if s.saver != nil {
		if err := s.saver.SaveGameState(ctx, snapshot.ID, snapshot); err != nil {
			// A crash here loses at most this one transition, which is
			// acceptable for a single-player game.
			s.logger.Error("Failed to persist gamestate", "id", snapshot.ID, "error", err)
		}
	}

	s.notify(snapshot)
}

func (s *Store) notify(snapshot *state.GameState) {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
