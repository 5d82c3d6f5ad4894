package publishing

import (
	"context"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// ErrProfileNotFound is returned when no MLS profile exists for the lookup key.
var ErrProfileNotFound = dErrors.New(dErrors.CodeNotFound, "mls profile not found")

// ErrMarketingNotFound is returned when a listing has no recorded marketing start.
var ErrMarketingNotFound = dErrors.New(dErrors.CodeNotFound, "no marketing start recorded for listing")

// ProfileStore persists MLS compliance rulesets keyed by (tenant, board name).
//
// Error Contract:
// - Return ErrProfileNotFound when no profile matches
// - Return wrapped errors with context for infrastructure failures
type ProfileStore interface {
	Save(ctx context.Context, profile MLSProfile) error
	Get(ctx context.Context, tenantID id.TenantID, name string) (MLSProfile, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]MLSProfile, error)
}

// MarketingStore tracks when public marketing began per listing. The timestamp
// is written once when marketing starts; the Clear Cooperation timer derives
// from it on every read.
type MarketingStore interface {
	RecordStart(ctx context.Context, record MarketingRecord) error
	GetStart(ctx context.Context, listingID id.ListingID) (MarketingRecord, error)
}
