// Package claims owns the claim registry and orchestrates the oracle gate and
// risk-pool collaborator during approval and settlement.
package claims

import (
	"time"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// State is the claim lifecycle state. A closed enum checked against the
// transition table below.
type State string

const (
	StateSubmitted   State = "submitted"
	StateUnderReview State = "under_review"
	StateApproved    State = "approved"
	StateRejected    State = "rejected"
	StateSettled     State = "settled"
)

// transitions is the single source of truth for the claim lifecycle graph.
// Rejected and Settled are terminal.
var transitions = map[State]map[State]bool{
	StateSubmitted: {
		StateUnderReview: true,
	},
	StateUnderReview: {
		StateApproved: true,
		StateRejected: true,
	},
	StateApproved: {
		StateSettled: true,
	},
	StateRejected: {},
	StateSettled:  {},
}

// CanTransitionTo reports whether the graph permits moving to next.
func (s State) CanTransitionTo(next State) bool {
	return transitions[s][next]
}

// IsValid checks the state is one of the enumerated values.
func (s State) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s State) String() string { return string(s) }

// Claim is a payout request filed against exactly one policy. State is never
// mutated except through the transition methods, which re-check the graph.
type Claim struct {
	ID          id.ClaimID
	PolicyID    id.PolicyID
	Claimant    id.Identity
	Amount      id.Amount
	State       State
	SubmittedAt time.Time

	// OracleDataID records which oracle data set backed the approval, when
	// the gate was consulted. Zero otherwise.
	OracleDataID id.OracleDataID
}

// New creates a claim in the Submitted state.
func New(policyID id.PolicyID, claimant id.Identity, amount id.Amount, submittedAt time.Time) Claim {
	return Claim{
		PolicyID:    policyID,
		Claimant:    claimant,
		Amount:      amount,
		State:       StateSubmitted,
		SubmittedAt: submittedAt,
	}
}

func (c *Claim) transitionTo(next State) error {
	if !c.State.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidStateTransition,
			"claim cannot move from %s to %s", c.State, next)
	}
	c.State = next
	return nil
}

// StartReview moves a Submitted claim under review.
func (c *Claim) StartReview() error {
	if c.State != StateSubmitted {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s, not submitted", c.State)
	}
	return c.transitionTo(StateUnderReview)
}

// Approve moves a claim under review to Approved.
func (c *Claim) Approve() error {
	if c.State != StateUnderReview {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s, not under review", c.State)
	}
	return c.transitionTo(StateApproved)
}

// Reject moves a claim under review to Rejected.
func (c *Claim) Reject() error {
	if c.State != StateUnderReview {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s, not under review", c.State)
	}
	return c.transitionTo(StateRejected)
}

// Settle moves an Approved claim to Settled.
func (c *Claim) Settle() error {
	if c.State != StateApproved {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s, not approved", c.State)
	}
	return c.transitionTo(StateSettled)
}
