package tenant

import (
	"time"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Settings holds the per-tenant messaging compliance configuration the
// consent evaluator consumes: the quiet-hours window and SMS carrier
// registration state.
//
// Invariants:
//   - QuietHoursStart and QuietHoursEnd are hours of day in [0, 23]
//   - A window with start == end means quiet hours are disabled
type Settings struct {
	TenantID        id.TenantID `json:"tenant_id"`
	QuietHoursStart int         `json:"quiet_hours_start"`
	QuietHoursEnd   int         `json:"quiet_hours_end"`
	TenDLCReady     bool        `json:"ten_dlc_ready"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Validate enforces the settings invariants at trust boundaries.
func (s Settings) Validate() error {
	if s.QuietHoursStart < 0 || s.QuietHoursStart > 23 {
		return dErrors.New(dErrors.CodeInvalidInput, "quiet_hours_start must be between 0 and 23")
	}
	if s.QuietHoursEnd < 0 || s.QuietHoursEnd > 23 {
		return dErrors.New(dErrors.CodeInvalidInput, "quiet_hours_end must be between 0 and 23")
	}
	return nil
}

// DefaultSettings returns the fallback applied to tenants that have not
// configured messaging compliance yet. 10DLC readiness defaults to false so
// SMS stays blocked until carrier registration is confirmed.
func DefaultSettings(tenantID id.TenantID, quietStart, quietEnd int) Settings {
	return Settings{
		TenantID:        tenantID,
		QuietHoursStart: quietStart,
		QuietHoursEnd:   quietEnd,
		TenDLCReady:     false,
	}
}
