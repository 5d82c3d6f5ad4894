package publishing

import (
	"time"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// CompensationRule governs whether marketing content may display buyer-agent
// compensation under an MLS board's rules.
type CompensationRule string

const (
	CompensationAllowed     CompensationRule = "allowed"
	CompensationProhibited  CompensationRule = "prohibited"
	CompensationConditional CompensationRule = "conditional"
)

var validCompensationRules = map[CompensationRule]bool{
	CompensationAllowed:     true,
	CompensationProhibited:  true,
	CompensationConditional: true,
}

// IsValid checks if the rule is one of the supported enum values.
func (r CompensationRule) IsValid() bool {
	return validCompensationRules[r]
}

// ContentType classifies the marketing artifact under preflight.
type ContentType string

const (
	ContentFlyer ContentType = "flyer"
	ContentEmail ContentType = "email"
	ContentPage  ContentType = "page"
)

var validContentTypes = map[ContentType]bool{
	ContentFlyer: true,
	ContentEmail: true,
	ContentPage:  true,
}

// IsValid checks if the content type is one of the supported enum values.
func (c ContentType) IsValid() bool {
	return validContentTypes[c]
}

// MLSProfile is the compliance ruleset for one MLS board: the disclaimer text
// every piece of marketing must carry, the compensation display policy, and
// the Clear Cooperation submission SLA.
type MLSProfile struct {
	TenantID                 id.TenantID      `json:"tenant_id"`
	Name                     string           `json:"name"`
	DisclaimerText           string           `json:"disclaimer_text"`
	CompensationDisplayRule  CompensationRule `json:"compensation_display_rule"`
	ClearCooperationRequired bool             `json:"clear_cooperation_required"`
	SLAHours                 int              `json:"sla_hours"`
	LastReviewedAt           *time.Time       `json:"last_reviewed_at,omitempty"`
}

// Validate enforces the profile invariants at trust boundaries.
func (p MLSProfile) Validate() error {
	if p.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name cannot be empty")
	}
	if p.DisclaimerText == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "disclaimer_text cannot be empty")
	}
	if !p.CompensationDisplayRule.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid compensation_display_rule: "+string(p.CompensationDisplayRule))
	}
	if p.SLAHours <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "sla_hours must be positive")
	}
	return nil
}

// Payload is one piece of marketing content submitted for preflight. Fields
// is free-form template data the checks never inspect; the compliance-relevant
// attributes are lifted out into typed fields.
type Payload struct {
	ContentType         ContentType       `json:"content_type"`
	Fields              map[string]string `json:"fields,omitempty"`
	DisplayedDisclaimer string            `json:"displayed_disclaimer,omitempty"`
	ShowsCompensation   bool              `json:"shows_compensation,omitempty"`
	CompensationValue   string            `json:"compensation_value,omitempty"`
	MarketingStart      *time.Time        `json:"marketing_start,omitempty"`
	ListingID           string            `json:"listing_id,omitempty"`
}

// Validate enforces the payload invariants at trust boundaries.
func (p Payload) Validate() error {
	if !p.ContentType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid content_type: "+string(p.ContentType))
	}
	return nil
}

// MarketingRecord tracks when public marketing began for a listing. The Clear
// Cooperation timer is derived from it on every read, never stored.
type MarketingRecord struct {
	ListingID id.ListingID `json:"listing_id"`
	TenantID  id.TenantID  `json:"tenant_id"`
	StartedAt time.Time    `json:"started_at"`
}
