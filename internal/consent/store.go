package consent

import (
	"context"

	id "hearth/pkg/domain"
)

// Store persists consent evidence. Implementations must be append-only for
// records: revocations are appended, never updated in place.
//
// Error Contract:
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	Append(ctx context.Context, record Record) error
	ListByContact(ctx context.Context, contactID id.ContactID) ([]Record, error)

	// Global STOP state is tracked per (contact, channel); it is set by
	// carrier STOP webhooks and unsubscribe links, and read on every check.
	SetGlobalStop(ctx context.Context, contactID id.ContactID, channel id.Channel) error
	HasGlobalStop(ctx context.Context, contactID id.ContactID, channel id.Channel) (bool, error)
}
