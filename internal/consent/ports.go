package consent

import (
	"context"

	"hearth/internal/audit"
	id "hearth/pkg/domain"
)

// TenantConfig is the slice of tenant configuration the evaluator consumes.
type TenantConfig struct {
	QuietHoursStart int
	QuietHoursEnd   int
	TenDLCReady     bool
}

// TenantConfigSource supplies per-tenant messaging compliance configuration.
// Implementations decide what a missing tenant record means (see adapters).
type TenantConfigSource interface {
	ConfigFor(ctx context.Context, tenantID id.TenantID) (TenantConfig, error)
}

// AuditPublisher records compliance decisions for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
