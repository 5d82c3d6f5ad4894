package audit

import "time"

// EventType labels the compliance decision an event records.
type EventType string

const (
	EventConsentCaptured EventType = "consent.captured"
	EventConsentRevoked  EventType = "consent.revoked"
	EventConsentChecked  EventType = "consent.checked"
	EventGlobalStop      EventType = "consent.global_stop"
	EventPreflightRun    EventType = "publishing.preflight"
	EventJourneyMatched  EventType = "journey.matched"
)

// Event is one append-only entry in the compliance decision trail. Metadata
// carries decision-specific detail (reasons, violations, matched actions) as
// flat strings so every sink can serialize it the same way.
type Event struct {
	Type      EventType         `json:"type"`
	TenantID  string            `json:"tenant_id,omitempty"`
	SubjectID string            `json:"subject_id,omitempty"`
	Outcome   string            `json:"outcome"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
