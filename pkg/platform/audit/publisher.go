package audit

import (
	"context"
	"log/slog"
	"time"
)

// Store persists audit events. Implementations must be safe for concurrent
// use; the worker is the only writer in practice.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Sink receives events after they are persisted, e.g. a kafka topic.
// Sinks are best-effort: a sink failure is logged, never propagated.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

const defaultInboxSize = 256

// Publisher hands events to the background worker without blocking the
// calling user operation. A full inbox drops the event and logs it; losing an
// audit event must never fail the operation that produced it.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher creates a publisher and the inbox channel the worker drains.
func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, defaultInboxSize),
		logger: logger,
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Publish stamps and enqueues an event. Non-blocking.
func (p *Publisher) Publish(_ context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}

	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("audit inbox full, dropping event", "action", event.Action)
		}
	}
}
