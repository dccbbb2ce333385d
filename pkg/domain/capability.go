package domain

import dErrors "coverline/pkg/domain-errors"

// Capability names a permission a principal may hold. The engines depend only
// on a yes/no capability check; role storage lives behind the authz port.
type Capability string

// Supported capabilities.
const (
	// CapabilityAdmin gates claim review/approval/settlement, policy
	// cancellation and expiry, pause control, and configuration changes.
	CapabilityAdmin Capability = "admin"
	// CapabilityPolicyManage gates policy issuance.
	CapabilityPolicyManage Capability = "policy.manage"
)

// validCapabilities is the single source of truth for grantable capabilities.
var validCapabilities = map[Capability]bool{
	CapabilityAdmin:        true,
	CapabilityPolicyManage: true,
}

// ParseCapability constructs a Capability from external input.
func ParseCapability(s string) (Capability, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "capability cannot be empty")
	}
	c := Capability(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown capability")
	}
	return c, nil
}

// IsValid checks that the capability is one of the supported values.
func (c Capability) IsValid() bool { return validCapabilities[c] }

func (c Capability) String() string { return string(c) }
