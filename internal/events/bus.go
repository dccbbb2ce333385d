package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Bus implements Publisher. Append to the journal is synchronous so the event
// lands in the same logical operation as the state change; sink fan-out is
// handed to the worker through a buffered inbox and never blocks the engines.
type Bus struct {
	journal Journal
	inbox   chan Event
	logger  *slog.Logger
}

// NewBus builds a Bus with the given inbox capacity. Events beyond capacity
// are journaled but dropped from sink fan-out; the journal remains the source
// of truth.
func NewBus(journal Journal, buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		journal: journal,
		inbox:   make(chan Event, buffer),
		logger:  logger,
	}
}

func (b *Bus) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := b.journal.Append(ctx, event); err != nil {
		return err
	}
	select {
	case b.inbox <- event:
	default:
		if b.logger != nil {
			b.logger.WarnContext(ctx, "event inbox full, sink fan-out skipped",
				"kind", event.Kind,
				"event_id", event.ID,
			)
		}
	}
	return nil
}

// Inbox exposes the fan-out channel for the worker.
func (b *Bus) Inbox() <-chan Event {
	return b.inbox
}
