package publishing

import (
	"context"
	"sync"

	id "hearth/pkg/domain"
)

type profileKey struct {
	tenantID id.TenantID
	name     string
}

// InMemoryProfileStore stores MLS profiles in memory for tests/dev.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[profileKey]MLSProfile
}

// NewInMemoryProfileStore constructs an empty in-memory profile store.
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[profileKey]MLSProfile)}
}

func (s *InMemoryProfileStore) Save(_ context.Context, profile MLSProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileKey{profile.TenantID, profile.Name}] = profile
	return nil
}

func (s *InMemoryProfileStore) Get(_ context.Context, tenantID id.TenantID, name string) (MLSProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[profileKey{tenantID, name}]; ok {
		return profile, nil
	}
	return MLSProfile{}, ErrProfileNotFound
}

func (s *InMemoryProfileStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]MLSProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var profiles []MLSProfile
	for key, profile := range s.profiles {
		if key.tenantID == tenantID {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// InMemoryMarketingStore stores marketing start records in memory for tests/dev.
type InMemoryMarketingStore struct {
	mu      sync.RWMutex
	records map[id.ListingID]MarketingRecord
}

// NewInMemoryMarketingStore constructs an empty in-memory marketing store.
func NewInMemoryMarketingStore() *InMemoryMarketingStore {
	return &InMemoryMarketingStore{records: make(map[id.ListingID]MarketingRecord)}
}

// RecordStart keeps the earliest start: marketing begins once, re-announcing
// it must not reset the Clear Cooperation clock.
func (s *InMemoryMarketingStore) RecordStart(_ context.Context, record MarketingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[record.ListingID]; ok && existing.StartedAt.Before(record.StartedAt) {
		return nil
	}
	s.records[record.ListingID] = record
	return nil
}

func (s *InMemoryMarketingStore) GetStart(_ context.Context, listingID id.ListingID) (MarketingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[listingID]; ok {
		return record, nil
	}
	return MarketingRecord{}, ErrMarketingNotFound
}
