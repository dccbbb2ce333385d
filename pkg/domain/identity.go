package domain

import (
	"strings"

	dErrors "coverline/pkg/domain-errors"
)

// Identity names a principal on the ledger: a policy holder, a claimant, an
// administrator, or a collaborator component reference. The core treats it as
// an opaque, non-empty token; the hosting ledger defines its shape.
type Identity string

const maxIdentityLen = 128

// ParseIdentity constructs an Identity from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, padded, or longer
// than 128 characters; no other errors are expected.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot be empty")
	}
	if strings.TrimSpace(s) != s {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot have surrounding whitespace")
	}
	if len(s) > maxIdentityLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity must be 128 characters or less")
	}
	return Identity(s), nil
}

// IsNil reports whether the identity is empty.
func (i Identity) IsNil() bool { return i == "" }

func (i Identity) String() string { return string(i) }
