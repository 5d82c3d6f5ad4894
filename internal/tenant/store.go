package tenant

import (
	"context"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across in-memory and
// PostgreSQL implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "tenant settings not found")

// Store persists tenant compliance settings.
type Store interface {
	Get(ctx context.Context, tenantID id.TenantID) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}
