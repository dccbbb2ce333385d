// Package events is the append-only journal of domain events emitted by the
// engines. Events are observable externally (Kafka, Redis streams) but never
// consumed by the core itself.
package events

import (
	"time"

	id "coverline/pkg/domain"
)

// Kind names a domain event. The set mirrors the public protocol surface.
type Kind string

const (
	KindPolicyIssued    Kind = "policy_issued"
	KindPolicyCancelled Kind = "policy_cancelled"
	KindPolicyExpired   Kind = "policy_expired"

	KindClaimSubmitted   Kind = "claim_submitted"
	KindClaimUnderReview Kind = "claim_under_review"
	KindClaimApproved    Kind = "claim_approved"
	KindClaimRejected    Kind = "claim_rejected"
	KindClaimSettled     Kind = "claim_settled"

	KindRoleGranted Kind = "role_granted"
	KindRoleRevoked Kind = "role_revoked"

	KindPaused   Kind = "paused"
	KindUnpaused Kind = "unpaused"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so journals and sinks can fan out. Optional fields stay
// zero when they do not apply to the kind.
type Event struct {
	ID        string
	Kind      Kind
	Timestamp time.Time

	// Actor is the principal that triggered the operation, when authenticated.
	Actor id.Identity

	PolicyID id.PolicyID
	ClaimID  id.ClaimID

	// Subject is the holder (policy events), claimant (claim events), or
	// grantee (role events).
	Subject id.Identity

	Amount       id.Amount
	Premium      id.Amount
	DurationDays uint32
	Capability   id.Capability
	OracleDataID id.OracleDataID
}
