// Package authz implements the authorization collaborator at its contract
// boundary: a role registry answering "does principal P hold capability C?".
// The engines depend only on the Authorizer port, never on role storage.
package authz

import (
	"context"

	id "coverline/pkg/domain"
)

// Authorizer is the single capability-check port injected into every engine.
// Factoring the check here keeps authorization logic out of the per-operation
// code paths.
type Authorizer interface {
	Require(ctx context.Context, principal id.Identity, capability id.Capability) error
}
