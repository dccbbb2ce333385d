// Package domain holds the core value types shared across the insurance
// engines. Construct values via the Parse helpers at trust boundaries so
// invariants hold everywhere else; direct casting bypasses validation.
package domain

import (
	"strconv"

	dErrors "coverline/pkg/domain-errors"
)

// PolicyID identifies a policy in the registry. IDs are allocated from a
// monotonic counter owned by the policy store; zero is never a valid ID.
type PolicyID uint64

// IsNil reports whether the ID is the zero value.
func (id PolicyID) IsNil() bool { return id == 0 }

func (id PolicyID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParsePolicyID constructs a PolicyID from external input.
func ParsePolicyID(s string) (PolicyID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid policy id")
	}
	return PolicyID(v), nil
}

// ClaimID identifies a claim. IDs derive from the claim ledger sequence, not
// caller input, so they cannot be forged or reused.
type ClaimID uint64

func (id ClaimID) IsNil() bool { return id == 0 }

func (id ClaimID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseClaimID constructs a ClaimID from external input.
func ParseClaimID(s string) (ClaimID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid claim id")
	}
	return ClaimID(v), nil
}

// OracleDataID references a consensus data set held by the oracle
// collaborator. Recorded against approved claims for audit.
type OracleDataID uint64

func (id OracleDataID) IsNil() bool { return id == 0 }

func (id OracleDataID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseOracleDataID constructs an OracleDataID from external input.
func ParseOracleDataID(s string) (OracleDataID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid oracle data id")
	}
	return OracleDataID(v), nil
}
