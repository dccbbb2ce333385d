package policy

import (
	"context"
	"sync"

	id "coverline/pkg/domain"
	"coverline/pkg/platform/sentinel"
)

// InMemoryStore keeps the registry lightweight and testable. It intentionally
// favors clarity over performance.
type InMemoryStore struct {
	mu       sync.RWMutex
	counter  uint64
	policies map[id.PolicyID]Policy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{policies: make(map[id.PolicyID]Policy)}
}

func (s *InMemoryStore) Create(_ context.Context, p Policy) (id.PolicyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	p.ID = id.PolicyID(s.counter)
	s.policies[p.ID] = p
	return p.ID, nil
}

func (s *InMemoryStore) Get(_ context.Context, policyID id.PolicyID) (Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.policies[policyID]; ok {
		return p, nil
	}
	return Policy{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateIf(_ context.Context, p Policy, expected State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.policies[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.State != expected {
		return sentinel.ErrInvalidState
	}
	s.policies[p.ID] = p
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counter, nil
}
