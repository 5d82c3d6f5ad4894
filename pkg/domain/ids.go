// Package domain holds shared domain value types: typed identifiers and the
// channel/scope enums used across consent, publishing, and journeys.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (a ContactID can never be passed where a TenantID is expected).
// Construct via the Parse* functions at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	dErrors "hearth/pkg/domain-errors"
)

type (
	// TenantID identifies a brokerage tenant (organization).
	TenantID uuid.UUID
	// ContactID identifies a lead or client contact.
	ContactID uuid.UUID
	// ListingID identifies a property listing.
	ListingID uuid.UUID
	// JourneyID identifies an automation journey definition.
	JourneyID uuid.UUID
)

func (id TenantID) String() string  { return uuid.UUID(id).String() }
func (id ContactID) String() string { return uuid.UUID(id).String() }
func (id ListingID) String() string { return uuid.UUID(id).String() }
func (id JourneyID) String() string { return uuid.UUID(id).String() }

// NewJourneyID mints a fresh journey identifier.
func NewJourneyID() JourneyID { return JourneyID(uuid.New()) }

// The IDs serialize as canonical UUID strings. Defined types do not inherit
// uuid.UUID's marshal methods, so each type carries its own; YAML needs an
// explicit decode hook since yaml.v3 ignores encoding.TextUnmarshaler.

func (id TenantID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ContactID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ListingID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id JourneyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// decodeUUID is the lenient serialization path: any well-formed UUID round
// trips, including the nil zero value. Rejecting unknown or nil IDs is the
// job of the Parse* constructors at trust boundaries.
func decodeUUID(text []byte) (uuid.UUID, error) {
	if len(text) == 0 {
		return uuid.Nil, nil
	}
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	return parsed, nil
}

func (id *TenantID) UnmarshalText(text []byte) error {
	parsed, err := decodeUUID(text)
	if err != nil {
		return err
	}
	*id = TenantID(parsed)
	return nil
}

func (id *ContactID) UnmarshalText(text []byte) error {
	parsed, err := decodeUUID(text)
	if err != nil {
		return err
	}
	*id = ContactID(parsed)
	return nil
}

func (id *ListingID) UnmarshalText(text []byte) error {
	parsed, err := decodeUUID(text)
	if err != nil {
		return err
	}
	*id = ListingID(parsed)
	return nil
}

func (id *JourneyID) UnmarshalText(text []byte) error {
	parsed, err := decodeUUID(text)
	if err != nil {
		return err
	}
	*id = JourneyID(parsed)
	return nil
}

func (id *TenantID) UnmarshalYAML(node *yaml.Node) error  { return id.UnmarshalText([]byte(node.Value)) }
func (id *JourneyID) UnmarshalYAML(node *yaml.Node) error { return id.UnmarshalText([]byte(node.Value)) }

// parseUUID enforces the shared invariant: valid, non-empty, non-nil UUID.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}

// ParseTenantID constructs a TenantID from external input.
func ParseTenantID(s string) (TenantID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return TenantID(uuid.Nil), err
	}
	return TenantID(parsed), nil
}

// ParseContactID constructs a ContactID from external input.
func ParseContactID(s string) (ContactID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return ContactID(uuid.Nil), err
	}
	return ContactID(parsed), nil
}

// ParseListingID constructs a ListingID from external input.
func ParseListingID(s string) (ListingID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return ListingID(uuid.Nil), err
	}
	return ListingID(parsed), nil
}

// ParseJourneyID constructs a JourneyID from external input.
func ParseJourneyID(s string) (JourneyID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return JourneyID(uuid.Nil), err
	}
	return JourneyID(parsed), nil
}
