package worker

import (
	"context"
	"log/slog"

	audit "praxis/pkg/platform/audit"
)

// Worker consumes audit events from the publisher inbox and persists them,
// then forwards to optional sinks. It keeps background processing testable
// without wiring queue implementations into services.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	sinks  []audit.Sink
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger, sinks ...audit.Sink) *Worker {
	return &Worker{store: store, inbox: inbox, sinks: sinks, logger: logger}
}

// Run drains the inbox until the context is cancelled. Store failures are
// logged and the worker keeps going; audit loss is preferable to a stuck
// queue backing up into Publish drops.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.Error("append audit event", "action", event.Action, "error", err)
			}
			for _, sink := range w.sinks {
				if err := sink.Publish(ctx, event); err != nil && w.logger != nil {
					w.logger.Warn("audit sink publish failed", "action", event.Action, "error", err)
				}
			}
		}
	}
}
