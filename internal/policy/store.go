package policy

import (
	"context"

	id "coverline/pkg/domain"
)

// Store is interface-driven to keep the engine testable and to allow swapping
// in-memory and postgres persistence without rewiring business code.
//
// Stores return pkg/platform/sentinel errors; the service translates them
// into domain codes.
type Store interface {
	// Create allocates the next policy id from the monotonic counter and
	// persists the policy under it. The counter advances exactly once per
	// successful call.
	Create(ctx context.Context, p Policy) (id.PolicyID, error)
	Get(ctx context.Context, policyID id.PolicyID) (Policy, error)
	// UpdateIf persists p only while the stored state still equals expected,
	// so two racing transitions cannot both commit. Returns ErrInvalidState
	// on a state mismatch and ErrNotFound for unknown ids.
	UpdateIf(ctx context.Context, p Policy, expected State) error
	// Count returns the number of policies ever issued.
	Count(ctx context.Context) (uint64, error)
}
