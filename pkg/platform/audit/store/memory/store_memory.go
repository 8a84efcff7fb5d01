package memory

import (
	"context"
	"sync"

	audit "custodia/pkg/platform/audit"
)

// InMemoryStore keeps one append-only event log per kind. It is the default
// audit sink for tests and single-process deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[audit.Kind][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[audit.Kind][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Kind] = append(s.events[event.Kind], event)
	return nil
}

func (s *InMemoryStore) ListByKind(_ context.Context, kind audit.Kind) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[kind]...), nil
}

// ListAll returns every event across all kinds, in per-kind append order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Event
	for _, kind := range audit.Kinds() {
		all = append(all, s.events[kind]...)
	}
	return all, nil
}

// Clear drops all recorded events. Used between tests.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[audit.Kind][]audit.Event)
}
