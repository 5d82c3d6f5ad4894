package consent

import (
	"time"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Status is the lifecycle state a consent record asserts.
type Status string

const (
	StatusGranted Status = "GRANTED"
	StatusRevoked Status = "REVOKED"
	StatusUnknown Status = "UNKNOWN"
)

var validStatuses = map[Status]bool{
	StatusGranted: true,
	StatusRevoked: true,
	StatusUnknown: true,
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Record is one piece of consent evidence: a person agreed (or revoked
// agreement) to be contacted on a channel for a scope.
//
// Records are append-only. Revocation never mutates an earlier grant; it is a
// new record with Status REVOKED and RevokedAt set. The full history is
// retained indefinitely for audit. A contact may therefore hold many records
// per (channel, scope) pair; the evaluator treats the most recently captured
// one as authoritative.
type Record struct {
	ContactID    id.ContactID `json:"contact_id"`
	Channel      id.Channel   `json:"channel"`
	Scope        id.Scope     `json:"scope"`
	Status       Status       `json:"status"`
	VerbatimText string       `json:"verbatim_text"`
	CapturedAt   time.Time    `json:"captured_at"`
	RevokedAt    *time.Time   `json:"revoked_at,omitempty"`
	Source       string       `json:"source"`
	EvidenceURI  string       `json:"evidence_uri,omitempty"`
}

// Validate enforces the record invariants at trust boundaries. The verbatim
// consent language is mandatory evidence: a record without it is not
// defensible in an audit.
func (r Record) Validate() error {
	if !r.Channel.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid channel: "+string(r.Channel))
	}
	if !r.Scope.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid scope: "+string(r.Scope))
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid status: "+string(r.Status))
	}
	if r.VerbatimText == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "verbatim_text cannot be empty")
	}
	if r.CapturedAt.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "captured_at cannot be zero")
	}
	if r.Source == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "source cannot be empty")
	}
	return nil
}
