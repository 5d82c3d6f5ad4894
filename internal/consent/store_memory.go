package consent

import (
	"context"
	"sync"

	id "hearth/pkg/domain"
)

type stopKey struct {
	contactID id.ContactID
	channel   id.Channel
}

// InMemoryStore stores consent evidence in memory for tests/dev.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.ContactID][]Record
	stops   map[stopKey]bool
}

// NewInMemoryStore constructs an empty in-memory consent store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.ContactID][]Record),
		stops:   make(map[stopKey]bool),
	}
}

func (s *InMemoryStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ContactID] = append(s.records[record.ContactID], record)
	return nil
}

func (s *InMemoryStore) ListByContact(_ context.Context, contactID id.ContactID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record{}, s.records[contactID]...), nil
}

func (s *InMemoryStore) SetGlobalStop(_ context.Context, contactID id.ContactID, channel id.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops[stopKey{contactID, channel}] = true
	return nil
}

func (s *InMemoryStore) HasGlobalStop(_ context.Context, contactID id.ContactID, channel id.Channel) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stops[stopKey{contactID, channel}], nil
}
