package journey

import (
	"context"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// ErrNotFound is returned when no journey exists for the lookup key.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "journey not found")

// Store persists journey definitions.
//
// Error Contract:
// - Return ErrNotFound when no journey matches
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	Save(ctx context.Context, definition Definition) error
	Get(ctx context.Context, journeyID id.JourneyID) (Definition, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Definition, error)
}
