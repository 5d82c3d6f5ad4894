package consent

import (
	"fmt"
	"strings"
	"time"

	id "hearth/pkg/domain"
	"hearth/pkg/timeutil"
)

// EvaluateInput is the fully materialized snapshot the evaluator decides on.
// Callers load records and tenant settings before invoking Evaluate; the
// evaluator itself performs no I/O.
type EvaluateInput struct {
	Channel id.Channel
	Scope   id.Scope
	Records []Record

	// Quiet-hours window, hour-of-day 0-23. Equal values disable the window.
	QuietHoursStart int
	QuietHoursEnd   int

	// Now defaults to the current time when zero.
	Now time.Time

	TenantTenDLCReady  bool
	IsTransactional    bool
	HasGlobalStop      bool
	OverrideQuietHours bool
}

// CheckResult is the evaluator's verdict. There are no errors: every invalid
// or unknown state maps to a structured deny with a human-readable reason the
// operator can act on.
type CheckResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`

	// EvidenceRequired is tri-state: nil when evidence is not the issue,
	// true when a deny is caused by missing evidence, and explicitly false
	// on promotional allows to assert the evidence check ran.
	EvidenceRequired *bool `json:"evidence_required,omitempty"`
}

// Evaluate decides whether a message may be sent on a channel/scope given the
// consent evidence, quiet-hours policy, and carrier registration state.
//
// Rule priority (first match wins, no rule combination):
//  1. Global STOP - channel-wide opt-out dominates everything
//  2. SMS carrier registration (10DLC) - regulatory prerequisite
//  3. Consent evidence on file - most recent record per (channel, scope)
//  4. Evidence status - must be GRANTED and not revoked
//  5. Quiet hours - suppresses non-email sends absent an override
//  6. Allow
func Evaluate(input EvaluateInput) CheckResult {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Rule 1: Global STOP - channel-wide opt-out dominates everything
	if input.HasGlobalStop {
		return deny("Channel globally muted by STOP/unsubscribe")
	}

	// Rule 2: SMS carrier registration - regulatory prerequisite
	if input.Channel == id.ChannelSMS && !input.TenantTenDLCReady {
		return deny("SMS sending blocked until 10DLC carrier registration is complete")
	}

	// Rule 3: Consent evidence on file. The authoritative record is the most
	// recently captured one matching both channel and scope exactly.
	authoritative := latestRecord(input.Records, input.Channel, input.Scope)
	if authoritative == nil {
		result := deny(fmt.Sprintf("No consent evidence on file for %s %s",
			input.Channel, strings.ToLower(string(input.Scope))))
		result.EvidenceRequired = boolPtr(true)
		return result
	}

	// Rule 4: Evidence status - must be GRANTED and not revoked
	if authoritative.Status != StatusGranted || authoritative.RevokedAt != nil {
		return deny("Consent has been revoked or was never granted")
	}

	// Rule 5: Quiet hours. EMAIL is exempt - existing business behavior,
	// preserved pending product confirmation.
	if timeutil.HourInWindow(now.Hour(), input.QuietHoursStart, input.QuietHoursEnd) &&
		!input.OverrideQuietHours &&
		input.Channel != id.ChannelEmail {
		return deny(fmt.Sprintf("Quiet hours in effect (%02d:00-%02d:00)",
			input.QuietHoursStart, input.QuietHoursEnd))
	}

	// Rule 6: Allow. Promotional sends assert explicitly that the evidence
	// check ran and passed.
	if input.Scope == id.ScopePromotional && !input.IsTransactional {
		return CheckResult{Allowed: true, EvidenceRequired: boolPtr(false)}
	}
	return CheckResult{Allowed: true}
}

// latestRecord selects the record with the maximum CapturedAt among exact
// (channel, scope) matches, regardless of slice order. Returns nil when no
// record matches.
func latestRecord(records []Record, channel id.Channel, scope id.Scope) *Record {
	var latest *Record
	for i := range records {
		record := &records[i]
		if record.Channel != channel || record.Scope != scope {
			continue
		}
		if latest == nil || record.CapturedAt.After(latest.CapturedAt) {
			latest = record
		}
	}
	return latest
}

func deny(reason string) CheckResult {
	return CheckResult{Allowed: false, Reason: reason}
}

func boolPtr(b bool) *bool {
	return &b
}
