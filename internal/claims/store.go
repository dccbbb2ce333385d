package claims

import (
	"context"

	id "coverline/pkg/domain"
)

// Store is interface-driven so the engine runs against in-memory or postgres
// persistence unchanged. Stores return pkg/platform/sentinel errors; the
// service translates.
type Store interface {
	// Create allocates the claim id from the ledger sequence, persists the
	// claim, and records the policy→claim index in one atomic step. Returns
	// ErrConflict when the policy already has a claim; this is the
	// anti-duplication invariant and must not be checked separately from the
	// insert.
	Create(ctx context.Context, c Claim) (id.ClaimID, error)
	Get(ctx context.Context, claimID id.ClaimID) (Claim, error)
	// UpdateIf persists c only while the stored state still equals expected.
	// Returns ErrInvalidState on mismatch and ErrNotFound for unknown ids.
	UpdateIf(ctx context.Context, c Claim, expected State) error
	// ClaimIDForPolicy resolves the secondary index.
	ClaimIDForPolicy(ctx context.Context, policyID id.PolicyID) (id.ClaimID, error)
}
