package state

import (
	"context"
	"sync"

	"github.com/klokku/calgrid/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Store holds the current State. Every dispatched action produces a new
// version; readers get consistent snapshots without copying.
type Store struct {
	mu sync.RWMutex
	// publishMu is taken before mu is released so state.changed goes out in
	// version order.
	publishMu sync.Mutex
	state     State
	version   uint64
	eventBus  *event_bus.EventBus
}

func NewStore(initial State, eventBus *event_bus.EventBus) *Store {
	return &Store{state: initial, eventBus: eventBus}
}

// Dispatch reduces a into the current state and publishes state.changed.
// The new state is kept even when a subscriber fails; the error is returned
// to the caller.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, uint64, error) {
	return s.DispatchIf(ctx, a, nil)
}

// DispatchIf runs check against the current state under the write lock and
// only reduces a when check returns nil. A failed check leaves the state and
// version unchanged and publishes nothing. Subscribers see versions in
// increasing order and must not dispatch from the state.changed handler.
func (s *Store) DispatchIf(ctx context.Context, a Action, check func(State) error) (State, uint64, error) {
	s.mu.Lock()
	if check != nil {
		if err := check(s.state); err != nil {
			current, version := s.state, s.version
			s.mu.Unlock()
			return current, version, err
		}
	}
	s.state = Reduce(s.state, a)
	s.version++
	next, version := s.state, s.version
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Unlock()

	log.Tracef("dispatched %s, version %d", a.Type(), version)

	if s.eventBus != nil {
		err := s.eventBus.Publish(event_bus.NewEvent(
			ctx,
			event_bus.StateChangedType,
			event_bus.StateChanged{Action: a.Type(), Version: version},
		))
		if err != nil {
			log.Errorf("failed to publish state change for %s: %v", a.Type(), err)
			return next, version, err
		}
	}
	return next, version, nil
}

// Snapshot returns the current state and its version.
func (s *Store) Snapshot() (State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.version
}
