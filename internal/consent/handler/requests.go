package handler

import (
	"time"

	"github.com/mssola/useragent"

	"hearth/internal/consent"
	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// CheckConsentRequest asks whether one outbound send is permitted.
type CheckConsentRequest struct {
	Channel            string     `json:"channel"`
	Scope              string     `json:"scope"`
	IsTransactional    bool       `json:"is_transactional,omitempty"`
	OverrideQuietHours bool       `json:"override_quiet_hours,omitempty"`
	Now                *time.Time `json:"now,omitempty"`
}

// CaptureConsentRequest records one piece of consent evidence.
type CaptureConsentRequest struct {
	Channel      string     `json:"channel"`
	Scope        string     `json:"scope"`
	Status       string     `json:"status"`
	VerbatimText string     `json:"verbatim_text"`
	CapturedAt   *time.Time `json:"captured_at,omitempty"`
	Source       string     `json:"source"`
	EvidenceURI  string     `json:"evidence_uri,omitempty"`
}

// RevokeConsentRequest withdraws consent for one (channel, scope) pair.
type RevokeConsentRequest struct {
	Channel string `json:"channel"`
	Scope   string `json:"scope"`
	Source  string `json:"source,omitempty"`
}

// GlobalStopRequest mutes a channel entirely for the contact.
type GlobalStopRequest struct {
	Channel string `json:"channel"`
}

func (r CheckConsentRequest) toCheckRequest(tenantID id.TenantID, contactID id.ContactID) (consent.CheckRequest, error) {
	channel, err := id.ParseChannel(r.Channel)
	if err != nil {
		return consent.CheckRequest{}, err
	}
	scope, err := id.ParseScope(r.Scope)
	if err != nil {
		return consent.CheckRequest{}, err
	}
	req := consent.CheckRequest{
		TenantID:           tenantID,
		ContactID:          contactID,
		Channel:            channel,
		Scope:              scope,
		IsTransactional:    r.IsTransactional,
		OverrideQuietHours: r.OverrideQuietHours,
	}
	if r.Now != nil {
		req.Now = *r.Now
	}
	return req, nil
}

func (r CaptureConsentRequest) toRecord(contactID id.ContactID) (consent.Record, error) {
	channel, err := id.ParseChannel(r.Channel)
	if err != nil {
		return consent.Record{}, err
	}
	scope, err := id.ParseScope(r.Scope)
	if err != nil {
		return consent.Record{}, err
	}
	status := consent.Status(r.Status)
	if !status.IsValid() {
		return consent.Record{}, dErrors.New(dErrors.CodeInvalidInput, "invalid status: "+r.Status)
	}

	record := consent.Record{
		ContactID:    contactID,
		Channel:      channel,
		Scope:        scope,
		Status:       status,
		VerbatimText: r.VerbatimText,
		Source:       r.Source,
		EvidenceURI:  r.EvidenceURI,
	}
	if r.CapturedAt != nil {
		record.CapturedAt = *r.CapturedAt
	}
	return record, nil
}

// deviceSummary condenses the capturing user agent into a short audit string.
// Capture context is evidence too: regulators ask how consent was collected.
func deviceSummary(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	summary := name + " " + version + " on " + ua.OS()
	if ua.Mobile() {
		summary += " (mobile)"
	}
	if ua.Bot() {
		summary += " (bot)"
	}
	return summary
}
