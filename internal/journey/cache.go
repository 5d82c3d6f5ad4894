package journey

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "hearth/pkg/domain"
)

// cacheTTL bounds staleness when invalidation is missed (another node saved
// through a different store instance).
const cacheTTL = 5 * time.Minute

// CachedStore layers a Redis read cache over a journey store. The tenant's
// definition list is the hot read on every incoming event; writes pass
// through and invalidate. Cache failures degrade to the backing store and are
// logged, never surfaced.
type CachedStore struct {
	store  Store
	client redis.Cmdable
	logger *slog.Logger
}

// NewCachedStore wraps a store with a Redis definition cache.
func NewCachedStore(store Store, client redis.Cmdable, logger *slog.Logger) *CachedStore {
	return &CachedStore{store: store, client: client, logger: logger}
}

func tenantCacheKey(tenantID id.TenantID) string {
	return "hearth:journeys:" + tenantID.String()
}

func (s *CachedStore) Save(ctx context.Context, definition Definition) error {
	if err := s.store.Save(ctx, definition); err != nil {
		return err
	}
	if err := s.client.Del(ctx, tenantCacheKey(definition.TenantID)).Err(); err != nil {
		s.warn(ctx, "journey cache invalidation failed", err)
	}
	return nil
}

func (s *CachedStore) Get(ctx context.Context, journeyID id.JourneyID) (Definition, error) {
	return s.store.Get(ctx, journeyID)
}

func (s *CachedStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Definition, error) {
	key := tenantCacheKey(tenantID)

	cached, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var definitions []Definition
		if err := json.Unmarshal(cached, &definitions); err == nil {
			return definitions, nil
		}
		// Unreadable entry, fall through to the store and rewrite it.
	} else if err != redis.Nil {
		s.warn(ctx, "journey cache read failed", err)
	}

	definitions, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(definitions)
	if err != nil {
		s.warn(ctx, "journey cache entry marshal failed", err)
		return definitions, nil
	}
	if err := s.client.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		s.warn(ctx, "journey cache write failed", err)
	}
	return definitions, nil
}

func (s *CachedStore) warn(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, "error", err.Error())
	}
}
