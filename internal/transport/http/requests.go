package httptransport

import "time"

// Request bodies. Amounts are minor units; identities are opaque tokens.

type issuePolicyRequest struct {
	Holder         string `json:"holder"`
	CoverageAmount int64  `json:"coverage_amount"`
	PremiumAmount  int64  `json:"premium_amount"`
	DurationDays   uint32 `json:"duration_days"`
}

type submitClaimRequest struct {
	PolicyID string `json:"policy_id"`
	Amount   int64  `json:"amount"`
}

type approveClaimRequest struct {
	OracleDataID *string `json:"oracle_data_id,omitempty"`
}

type validateClaimRequest struct {
	OracleDataID string `json:"oracle_data_id"`
}

type oracleConfigRequest struct {
	Oracle         string `json:"oracle"`
	Required       bool   `json:"required"`
	MinSubmissions uint32 `json:"min_submissions"`
}

type roleRequest struct {
	Principal  string `json:"principal"`
	Capability string `json:"capability"`
}

// Response bodies.

type policyResponse struct {
	ID             string    `json:"id"`
	Holder         string    `json:"holder"`
	CoverageAmount int64     `json:"coverage_amount"`
	PremiumAmount  int64     `json:"premium_amount"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	State          string    `json:"state"`
	CreatedAt      time.Time `json:"created_at"`
}

type claimResponse struct {
	ID           string    `json:"id"`
	PolicyID     string    `json:"policy_id"`
	Claimant     string    `json:"claimant"`
	Amount       int64     `json:"amount"`
	State        string    `json:"state"`
	SubmittedAt  time.Time `json:"submitted_at"`
	OracleDataID string    `json:"oracle_data_id,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type stateResponse struct {
	State string `json:"state"`
}

type pausedResponse struct {
	Paused bool `json:"paused"`
}

type countResponse struct {
	Count uint64 `json:"count"`
}

type oracleConfigResponse struct {
	Oracle         string `json:"oracle"`
	Required       bool   `json:"required"`
	MinSubmissions uint32 `json:"min_submissions"`
}

type validResponse struct {
	Valid bool `json:"valid"`
}

type oracleDataResponse struct {
	OracleDataID string `json:"oracle_data_id"`
}
