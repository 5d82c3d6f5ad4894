package adapters

import (
	"context"
	"errors"

	"hearth/internal/consent"
	"hearth/internal/tenant"
	id "hearth/pkg/domain"
)

// TenantConfigAdapter bridges the tenant settings store to the consent
// module's TenantConfigSource port. Tenants without a settings record fall
// back to the platform defaults, which keep SMS blocked (TenDLCReady=false)
// until registration is confirmed.
type TenantConfigAdapter struct {
	store             tenant.Store
	defaultQuietStart int
	defaultQuietEnd   int
}

func NewTenantConfigAdapter(store tenant.Store, defaultQuietStart, defaultQuietEnd int) *TenantConfigAdapter {
	return &TenantConfigAdapter{
		store:             store,
		defaultQuietStart: defaultQuietStart,
		defaultQuietEnd:   defaultQuietEnd,
	}
}

func (a *TenantConfigAdapter) ConfigFor(ctx context.Context, tenantID id.TenantID) (consent.TenantConfig, error) {
	settings, err := a.store.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			fallback := tenant.DefaultSettings(tenantID, a.defaultQuietStart, a.defaultQuietEnd)
			return consent.TenantConfig{
				QuietHoursStart: fallback.QuietHoursStart,
				QuietHoursEnd:   fallback.QuietHoursEnd,
				TenDLCReady:     fallback.TenDLCReady,
			}, nil
		}
		return consent.TenantConfig{}, err
	}
	return consent.TenantConfig{
		QuietHoursStart: settings.QuietHoursStart,
		QuietHoursEnd:   settings.QuietHoursEnd,
		TenDLCReady:     settings.TenDLCReady,
	}, nil
}
