package events

import (
	"context"
	"log/slog"
)

// Worker drains the bus inbox and fans events out to the configured sinks.
// Sink failures are logged and skipped: sinks are observability surface, not
// part of the operation's atomicity boundary.
type Worker struct {
	inbox  <-chan Event
	sinks  []Sink
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, logger *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{inbox: inbox, sinks: sinks, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, sink := range w.sinks {
				if err := sink.Publish(ctx, event); err != nil {
					if w.logger != nil {
						w.logger.ErrorContext(ctx, "event sink publish failed",
							"kind", event.Kind,
							"event_id", event.ID,
							"error", err,
						)
					}
				}
			}
		}
	}
}
