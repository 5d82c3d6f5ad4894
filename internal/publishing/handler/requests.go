package handler

import (
	"time"

	"hearth/internal/publishing"
	id "hearth/pkg/domain"
)

// PreflightRequest submits one piece of marketing content for compliance
// checks under a named MLS profile.
type PreflightRequest struct {
	Profile             string            `json:"profile"`
	ContentType         string            `json:"content_type"`
	Fields              map[string]string `json:"fields,omitempty"`
	DisplayedDisclaimer string            `json:"displayed_disclaimer,omitempty"`
	ShowsCompensation   bool              `json:"shows_compensation,omitempty"`
	CompensationValue   string            `json:"compensation_value,omitempty"`
	MarketingStart      *time.Time        `json:"marketing_start,omitempty"`
	ListingID           string            `json:"listing_id,omitempty"`
	Now                 *time.Time        `json:"now,omitempty"`
}

// SaveProfileRequest upserts one MLS board's compliance ruleset.
type SaveProfileRequest struct {
	Name                     string     `json:"name"`
	DisclaimerText           string     `json:"disclaimer_text"`
	CompensationDisplayRule  string     `json:"compensation_display_rule"`
	ClearCooperationRequired bool       `json:"clear_cooperation_required"`
	SLAHours                 int        `json:"sla_hours"`
	LastReviewedAt           *time.Time `json:"last_reviewed_at,omitempty"`
}

// StartMarketingRequest records the moment public marketing began.
type StartMarketingRequest struct {
	ListingID string     `json:"listing_id"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

func (r PreflightRequest) toServiceRequest(tenantID id.TenantID) publishing.PreflightRequest {
	req := publishing.PreflightRequest{
		TenantID:    tenantID,
		ProfileName: r.Profile,
		Payload: publishing.Payload{
			ContentType:         publishing.ContentType(r.ContentType),
			Fields:              r.Fields,
			DisplayedDisclaimer: r.DisplayedDisclaimer,
			ShowsCompensation:   r.ShowsCompensation,
			CompensationValue:   r.CompensationValue,
			MarketingStart:      r.MarketingStart,
			ListingID:           r.ListingID,
		},
	}
	if r.Now != nil {
		req.Now = *r.Now
	}
	return req
}

func (r SaveProfileRequest) toProfile(tenantID id.TenantID) publishing.MLSProfile {
	return publishing.MLSProfile{
		TenantID:                 tenantID,
		Name:                     r.Name,
		DisclaimerText:           r.DisclaimerText,
		CompensationDisplayRule:  publishing.CompensationRule(r.CompensationDisplayRule),
		ClearCooperationRequired: r.ClearCooperationRequired,
		SLAHours:                 r.SLAHours,
		LastReviewedAt:           r.LastReviewedAt,
	}
}
