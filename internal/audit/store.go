package audit

import "context"

// Store is an append-only sink for audit events. Swap with concrete storage
// or a stream producer without touching the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
}
