package tenant

import (
	"context"
	"sync"

	id "hearth/pkg/domain"
)

// InMemoryStore stores tenant settings in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings map[id.TenantID]Settings
}

// NewInMemoryStore constructs an empty in-memory settings store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{settings: make(map[id.TenantID]Settings)}
}

func (s *InMemoryStore) Get(_ context.Context, tenantID id.TenantID) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if settings, ok := s.settings[tenantID]; ok {
		return settings, nil
	}
	return Settings{}, ErrNotFound
}

func (s *InMemoryStore) Save(_ context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.TenantID] = settings
	return nil
}
