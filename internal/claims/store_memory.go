package claims

import (
	"context"
	"sync"

	id "coverline/pkg/domain"
	"coverline/pkg/platform/sentinel"
)

// InMemoryStore keeps the registry lightweight and testable. The sequence
// counter stands in for the hosting ledger's sequence number: claim ids are
// allocated by the store, never by callers.
type InMemoryStore struct {
	mu       sync.RWMutex
	seq      uint64
	claims   map[id.ClaimID]Claim
	byPolicy map[id.PolicyID]id.ClaimID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		claims:   make(map[id.ClaimID]Claim),
		byPolicy: make(map[id.PolicyID]id.ClaimID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, c Claim) (id.ClaimID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Duplicate check and insert under one lock: two submissions for the
	// same policy can never both observe "no existing claim".
	if _, exists := s.byPolicy[c.PolicyID]; exists {
		return 0, sentinel.ErrConflict
	}
	s.seq++
	c.ID = id.ClaimID(s.seq)
	s.claims[c.ID] = c
	s.byPolicy[c.PolicyID] = c.ID
	return c.ID, nil
}

func (s *InMemoryStore) Get(_ context.Context, claimID id.ClaimID) (Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.claims[claimID]; ok {
		return c, nil
	}
	return Claim{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateIf(_ context.Context, c Claim, expected State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.claims[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.State != expected {
		return sentinel.ErrInvalidState
	}
	s.claims[c.ID] = c
	return nil
}

func (s *InMemoryStore) ClaimIDForPolicy(_ context.Context, policyID id.PolicyID) (id.ClaimID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if claimID, ok := s.byPolicy[policyID]; ok {
		return claimID, nil
	}
	return 0, sentinel.ErrNotFound
}
