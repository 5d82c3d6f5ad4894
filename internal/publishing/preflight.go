package publishing

import (
	"strings"
	"time"

	"hearth/pkg/timeutil"
)

// PreflightResult carries every violation and warning found in one pass so the
// submitter can fix all issues at once.
type PreflightResult struct {
	Pass       bool     `json:"pass"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
}

const (
	violationDisclaimer   = "Required MLS disclaimer text missing or incorrect."
	violationCompensation = "Compensation display prohibited for this MLS."
)

// RunPreflight checks marketing content against an MLS profile's rules. Every
// check runs independently; one failure never suppresses another. Pass is true
// iff no violations were found, warnings never affect it.
func RunPreflight(payload Payload, profile MLSProfile, now time.Time) PreflightResult {
	if now.IsZero() {
		now = time.Now()
	}

	violations := []string{}
	warnings := []string{}

	// Disclaimer check. Substring containment, exact casing: boards publish
	// the required text verbatim and reject paraphrases.
	if payload.DisplayedDisclaimer == "" ||
		!strings.Contains(payload.DisplayedDisclaimer, profile.DisclaimerText) {
		violations = append(violations, violationDisclaimer)
	}

	// Compensation display policy.
	switch profile.CompensationDisplayRule {
	case CompensationProhibited:
		if payload.ShowsCompensation {
			violations = append(violations, violationCompensation)
		}
	case CompensationConditional:
		if payload.ShowsCompensation && payload.CompensationValue == "" {
			warnings = append(warnings, "Compensation shown without a stated value.")
		}
	}

	// Clear Cooperation submission window.
	if profile.ClearCooperationRequired && payload.MarketingStart != nil {
		elapsed := timeutil.WholeHoursBetween(*payload.MarketingStart, now)
		if elapsed > profile.SLAHours {
			violations = append(violations, "Clear Cooperation SLA breached: listing must be submitted to the MLS.")
		}
	}

	return PreflightResult{
		Pass:       len(violations) == 0,
		Violations: violations,
		Warnings:   warnings,
	}
}
