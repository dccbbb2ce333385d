// Package riskpool implements the risk-pool collaborator at its contract
// boundary: exclusive per-claim liquidity reservation and payout that consumes
// exactly one prior reservation.
package riskpool

import (
	"context"

	id "coverline/pkg/domain"
)

// Pool is the port the claims engine calls synchronously during approval and
// settlement.
type Pool interface {
	// ReserveLiquidity earmarks funds for a claim. A second reservation for
	// the same claim id is an error.
	ReserveLiquidity(ctx context.Context, claimID id.ClaimID, amount id.Amount) error
	// PayoutReservedClaim disburses a claim's reservation to the claimant,
	// consuming it. Paying a claim with no live reservation is an error.
	PayoutReservedClaim(ctx context.Context, claimID id.ClaimID, claimant id.Identity) error
}
