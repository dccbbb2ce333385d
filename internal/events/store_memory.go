package events

import (
	"context"
	"sync"
)

// InMemoryJournal keeps the journal lightweight and testable. It intentionally
// favors clarity over performance.
type InMemoryJournal struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{}
}

func (j *InMemoryJournal) Append(_ context.Context, event Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
	return nil
}

func (j *InMemoryJournal) ListByPolicy(_ context.Context, policyID uint64) ([]Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []Event
	for _, e := range j.events {
		if uint64(e.PolicyID) == policyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (j *InMemoryJournal) ListByClaim(_ context.Context, claimID uint64) ([]Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []Event
	for _, e := range j.events {
		if uint64(e.ClaimID) == claimID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns a snapshot of the full journal in append order. Test helper and
// ops surface; not part of the Journal interface.
func (j *InMemoryJournal) All() []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}
