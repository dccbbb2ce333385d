package events

import "context"

// Journal persists events in append order. Interface-driven so the in-memory
// journal, the postgres outbox, and future stores are interchangeable without
// rewiring the engines.
type Journal interface {
	Append(ctx context.Context, event Event) error
	ListByPolicy(ctx context.Context, policyID uint64) ([]Event, error)
	ListByClaim(ctx context.Context, claimID uint64) ([]Event, error)
}

// Sink receives events after they are journaled. Sinks are best-effort fan-out
// targets (Kafka topic, Redis stream); journal persistence is the source of
// truth.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher is the emission port injected into the engines.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
