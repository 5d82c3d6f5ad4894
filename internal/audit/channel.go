package audit

import (
	"context"
	"log/slog"
	"time"
)

// ChannelPublisher hands events to the background worker through a buffered
// channel so emission never blocks the request path. A full inbox drops the
// event and logs it: losing one trail entry beats stalling a decision.
type ChannelPublisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewChannelPublisher(inbox chan<- Event, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox, logger: logger}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit inbox full, event dropped",
				"event_type", string(event.Type),
			)
		}
	}
	return nil
}
