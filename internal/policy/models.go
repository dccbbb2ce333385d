// Package policy owns the policy registry: issuance validation, the closed
// lifecycle graph, and read accessors.
package policy

import (
	"time"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// State is the policy lifecycle state. A closed enum: only the values below
// are representable and transitions are checked against the table.
type State string

const (
	StateActive    State = "active"
	StateExpired   State = "expired"
	StateCancelled State = "cancelled"
)

// transitions is the single source of truth for the lifecycle graph.
// Expired and Cancelled are terminal; self-transitions are not listed and
// therefore rejected.
var transitions = map[State]map[State]bool{
	StateActive: {
		StateExpired:   true,
		StateCancelled: true,
	},
	StateExpired:   {},
	StateCancelled: {},
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

// Policy is an underwritten coverage contract. State is never mutated except
// through the transition methods, which re-check the graph.
type Policy struct {
	ID             id.PolicyID
	Holder         id.Identity
	CoverageAmount id.Amount
	PremiumAmount  id.Amount
	StartTime      time.Time
	EndTime        time.Time
	State          State
	CreatedAt      time.Time
}

// New creates a policy in the Active state.
func New(holder id.Identity, coverage, premium id.Amount, start, end, createdAt time.Time) Policy {
	return Policy{
		Holder:         holder,
		CoverageAmount: coverage,
		PremiumAmount:  premium,
		StartTime:      start,
		EndTime:        end,
		State:          StateActive,
		CreatedAt:      createdAt,
	}
}

// transitionTo applies a graph-checked state change.
func (p *Policy) transitionTo(next State) error {
	if !p.State.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidStateTransition,
			"policy cannot move from %s to %s", p.State, next)
	}
	p.State = next
	return nil
}

// Cancel moves the policy to Cancelled. Only allowed while Active.
func (p *Policy) Cancel() error {
	if p.State != StateActive {
		return dErrors.Newf(dErrors.CodeInvalidState, "policy is %s, not active", p.State)
	}
	return p.transitionTo(StateCancelled)
}

// Expire moves the policy to Expired. Only allowed while Active.
func (p *Policy) Expire() error {
	if p.State != StateActive {
		return dErrors.Newf(dErrors.CodeInvalidState, "policy is %s, not active", p.State)
	}
	return p.transitionTo(StateExpired)
}

// IsActive reports whether the policy is in the Active state.
func (p Policy) IsActive() bool { return p.State == StateActive }

// Config holds the protocol bounds applied at issuance plus the risk-pool
// collaborator reference carried for claims wiring.
type Config struct {
	RiskPool id.Identity

	MinCoverage id.Amount
	MaxCoverage id.Amount
	MinPremium  id.Amount
	MaxPremium  id.Amount

	MinDurationDays uint32
	MaxDurationDays uint32
}

// DefaultMaxDurationDays caps coverage windows at one year.
const DefaultMaxDurationDays = 365

// Validate checks the config is internally consistent.
func (c Config) Validate() error {
	if c.RiskPool.IsNil() {
		return dErrors.New(dErrors.CodeNotInitialized, "risk pool reference is required")
	}
	if !c.MinCoverage.Positive() || c.MaxCoverage < c.MinCoverage {
		return dErrors.New(dErrors.CodeInvalidInput, "coverage bounds are invalid")
	}
	if !c.MinPremium.Positive() || c.MaxPremium < c.MinPremium {
		return dErrors.New(dErrors.CodeInvalidInput, "premium bounds are invalid")
	}
	if c.MinDurationDays == 0 || c.MaxDurationDays < c.MinDurationDays {
		return dErrors.New(dErrors.CodeInvalidInput, "duration bounds are invalid")
	}
	return nil
}
