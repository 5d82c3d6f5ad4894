package journey

import (
	"context"
	"sort"
	"sync"

	id "hearth/pkg/domain"
)

// InMemoryStore stores journey definitions in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	journeys map[id.JourneyID]Definition
}

// NewInMemoryStore constructs an empty in-memory journey store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{journeys: make(map[id.JourneyID]Definition)}
}

func (s *InMemoryStore) Save(_ context.Context, definition Definition) error {
	if err := definition.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journeys[definition.ID] = definition
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, journeyID id.JourneyID) (Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if definition, ok := s.journeys[journeyID]; ok {
		return definition, nil
	}
	return Definition{}, ErrNotFound
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var definitions []Definition
	for _, definition := range s.journeys {
		if definition.TenantID == tenantID {
			definitions = append(definitions, definition)
		}
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions, nil
}
