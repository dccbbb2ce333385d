package oracle

import (
	"context"
	"log/slog"
	"sync"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// Gate validates claims against oracle consensus and records which oracle
// data backed each approval. Configuration mutation is not authorization-aware
// here; the control service gates SetConfig behind the admin capability.
type Gate struct {
	mu     sync.RWMutex
	config *ValidationConfig
	audit  map[id.ClaimID]id.OracleDataID

	client Client
	logger *slog.Logger
}

func NewGate(client Client, logger *slog.Logger) *Gate {
	return &Gate{
		audit:  make(map[id.ClaimID]id.OracleDataID),
		client: client,
		logger: logger,
	}
}

// SetConfig replaces the whole configuration atomically. Partial updates are
// not supported.
func (g *Gate) SetConfig(cfg ValidationConfig) error {
	if cfg.Oracle.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "oracle reference is required")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = &cfg
	return nil
}

// Config returns the active configuration, or CodeNotFound when none was set.
func (g *Gate) Config() (ValidationConfig, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.config == nil {
		return ValidationConfig{}, dErrors.New(dErrors.CodeNotFound, "oracle validation is not configured")
	}
	return *g.config, nil
}

// Required reports whether the gate is configured and enabled. The claims
// engine skips oracle validation entirely when this is false.
func (g *Gate) Required() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config != nil && g.config.Required
}

// ValidateClaim checks that the referenced oracle data has enough submissions
// and a resolvable consensus, then records the claim→data association for
// audit. Recording is idempotent: repeated calls with the same arguments are
// safe because this function is also invocable standalone.
//
// Errors: CodeNotFound when the gate was never configured;
// CodeInsufficientOracleSubmissions below the configured minimum; staleness
// and outlier failures from the collaborator propagate verbatim.
func (g *Gate) ValidateClaim(ctx context.Context, claimID id.ClaimID, dataID id.OracleDataID) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	if !cfg.Required {
		return nil
	}
	if dataID.IsNil() {
		return dErrors.New(dErrors.CodeOracleValidationFailed, "oracle data reference is required")
	}

	count, err := g.client.SubmissionCount(ctx, dataID)
	if err != nil {
		return err
	}
	if count < cfg.MinSubmissions {
		return dErrors.Newf(dErrors.CodeInsufficientOracleSubmissions,
			"oracle data %s has %d submissions, %d required", dataID, count, cfg.MinSubmissions)
	}

	// Resolution validates consensus; the collaborator rejects stale or
	// outlier data and those errors must reach the caller unchanged.
	resolution, err := g.client.Resolve(ctx, dataID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.audit[claimID] = dataID
	g.mu.Unlock()

	if g.logger != nil {
		g.logger.InfoContext(ctx, "claim validated against oracle consensus",
			"claim_id", claimID,
			"oracle_data_id", dataID,
			"submissions", count,
			"confidence", resolution.Confidence,
		)
	}
	return nil
}

// ClaimOracleData returns the oracle data recorded for a claim's validation.
func (g *Gate) ClaimOracleData(claimID id.ClaimID) (id.OracleDataID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	dataID, ok := g.audit[claimID]
	if !ok {
		return 0, dErrors.New(dErrors.CodeNotFound, "no oracle data recorded for claim")
	}
	return dataID, nil
}
