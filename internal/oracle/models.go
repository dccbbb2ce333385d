// Package oracle implements the consensus validation gate consulted before a
// claim may be approved, plus the config and audit state backing it.
package oracle

import (
	"context"
	"time"

	id "coverline/pkg/domain"
)

// ValidationConfig is the process-wide oracle gate configuration. It is
// replaced atomically by SetConfig; only the latest value is authoritative.
type ValidationConfig struct {
	// Oracle references the oracle collaborator the gate queries.
	Oracle id.Identity
	// Required toggles the gate. When false the gate default-permits.
	Required bool
	// MinSubmissions is the minimum oracle submission count backing a data
	// set before it can support an approval.
	MinSubmissions uint32
}

// Resolution is the consensus result returned by the oracle collaborator.
type Resolution struct {
	Value       int64
	Submissions uint32
	Confidence  uint32
	Timestamp   time.Time
}

// Client is the oracle collaborator contract. The collaborator is responsible
// for rejecting stale data and outlier submissions; those failures propagate
// through the gate unchanged.
type Client interface {
	SubmissionCount(ctx context.Context, dataID id.OracleDataID) (uint32, error)
	Resolve(ctx context.Context, dataID id.OracleDataID) (Resolution, error)
}
