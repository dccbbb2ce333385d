package claims

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coverline/internal/authz"
	"coverline/internal/control"
	"coverline/internal/events"
	"coverline/internal/oracle"
	"coverline/internal/platform/metrics"
	"coverline/internal/riskpool"
	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
	"coverline/pkg/platform/sentinel"
)

// PolicyReader is the slice of the policy engine the claims engine needs: a
// claim must reference a policy that exists.
type PolicyReader interface {
	PolicyExists(ctx context.Context, policyID id.PolicyID) (bool, error)
}

// Service enforces the claim lifecycle and composes the oracle gate and
// risk-pool collaborator into the approval and settlement transitions.
type Service struct {
	store      Store
	policies   PolicyReader
	authorizer authz.Authorizer
	pause      *control.Switch
	gate       *oracle.Gate
	pool       riskpool.Pool
	tx         TxRunner
	bus        events.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewService(
	store Store,
	policies PolicyReader,
	authorizer authz.Authorizer,
	pause *control.Switch,
	gate *oracle.Gate,
	pool riskpool.Pool,
	tx TxRunner,
	bus events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Service, error) {
	if store == nil || policies == nil || authorizer == nil || pause == nil || gate == nil || pool == nil || tx == nil {
		return nil, dErrors.New(dErrors.CodeNotInitialized, "claims service requires store, policy reader, authorizer, pause switch, gate, pool, and tx runner")
	}
	return &Service{
		store:      store,
		policies:   policies,
		authorizer: authorizer,
		pause:      pause,
		gate:       gate,
		pool:       pool,
		tx:         tx,
		bus:        bus,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// SubmitClaim files a claim against a policy. The claim id derives from the
// store's ledger sequence, never from caller input.
//
// Errors: CodeUnauthorized without an authenticated claimant; CodePaused
// while paused; CodeInvalidInput for a non-positive amount; CodeNotFound for
// an unknown policy; CodeAlreadyExists when the policy already has a claim.
func (s *Service) SubmitClaim(ctx context.Context, claimant id.Identity, policyID id.PolicyID, amount id.Amount) (id.ClaimID, error) {
	if claimant.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "claimant identity is required")
	}
	if s.pause.Paused() {
		return 0, dErrors.New(dErrors.CodePaused, "claim submission is paused")
	}
	if !amount.Positive() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "claim amount must be positive")
	}
	exists, err := s.policies.PolicyExists(ctx, policyID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "policy %s not found", policyID)
	}

	claimID, err := s.store.Create(ctx, New(policyID, claimant, amount, s.now().UTC()))
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return 0, dErrors.Newf(dErrors.CodeAlreadyExists, "policy %s already has a claim", policyID)
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "persist claim")
	}

	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.Inc()
	}
	s.emit(ctx, events.Event{
		Kind:     events.KindClaimSubmitted,
		Actor:    claimant,
		PolicyID: policyID,
		ClaimID:  claimID,
		Subject:  claimant,
		Amount:   amount,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "claim submitted",
			"claim_id", claimID,
			"policy_id", policyID,
			"claimant", claimant,
			"amount", amount,
		)
	}
	return claimID, nil
}

// StartReview moves a Submitted claim under review.
func (s *Service) StartReview(ctx context.Context, actor id.Identity, claimID id.ClaimID) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, uint64(claimID), func(ctx context.Context) error {
		c, err := s.load(ctx, claimID)
		if err != nil {
			return err
		}
		if err := c.StartReview(); err != nil {
			return err
		}
		if err := s.store.UpdateIf(ctx, c, StateSubmitted); err != nil {
			return s.translate(err)
		}
		s.metrics.IncClaimTransition(StateUnderReview.String())
		s.emit(ctx, events.Event{
			Kind:    events.KindClaimUnderReview,
			Actor:   actor,
			ClaimID: claimID,
			Subject: c.Claimant,
			Amount:  c.Amount,
		})
		return nil
	})
}

// ApproveClaim validates oracle consensus (when the gate is enabled), reserves
// liquidity in the risk pool, and commits the UnderReview→Approved transition.
// The reservation and the transition form one logical step: if the
// reservation fails the claim stays UnderReview with no partial state.
//
// When the gate is enabled, a nil oracleDataID fails with
// CodeOracleValidationFailed before any collaborator is contacted.
func (s *Service) ApproveClaim(ctx context.Context, actor id.Identity, claimID id.ClaimID, oracleDataID *id.OracleDataID) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, uint64(claimID), func(ctx context.Context) error {
		c, err := s.load(ctx, claimID)
		if err != nil {
			return err
		}
		if c.State != StateUnderReview {
			return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s, not under review", c.State)
		}

		if s.gate.Required() {
			if oracleDataID == nil {
				return dErrors.New(dErrors.CodeOracleValidationFailed, "oracle data reference is required for approval")
			}
			if err := s.gate.ValidateClaim(ctx, claimID, *oracleDataID); err != nil {
				if s.metrics != nil {
					s.metrics.OracleRejections.Inc()
				}
				return err
			}
			c.OracleDataID = *oracleDataID
		}

		if err := s.pool.ReserveLiquidity(ctx, claimID, c.Amount); err != nil {
			s.metrics.IncRiskPoolFailure("reserve")
			return err
		}

		if err := c.Approve(); err != nil {
			return err
		}
		if err := s.store.UpdateIf(ctx, c, StateUnderReview); err != nil {
			return s.translate(err)
		}

		s.metrics.IncClaimTransition(StateApproved.String())
		s.emit(ctx, events.Event{
			Kind:         events.KindClaimApproved,
			Actor:        actor,
			ClaimID:      claimID,
			Subject:      c.Claimant,
			Amount:       c.Amount,
			OracleDataID: c.OracleDataID,
		})
		if s.logger != nil {
			s.logger.InfoContext(ctx, "claim approved",
				"claim_id", claimID,
				"claimant", c.Claimant,
				"amount", c.Amount,
			)
		}
		return nil
	})
}

// RejectClaim moves a claim under review to Rejected. No funds are touched.
func (s *Service) RejectClaim(ctx context.Context, actor id.Identity, claimID id.ClaimID) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, uint64(claimID), func(ctx context.Context) error {
		c, err := s.load(ctx, claimID)
		if err != nil {
			return err
		}
		if err := c.Reject(); err != nil {
			return err
		}
		if err := s.store.UpdateIf(ctx, c, StateUnderReview); err != nil {
			return s.translate(err)
		}
		s.metrics.IncClaimTransition(StateRejected.String())
		s.emit(ctx, events.Event{
			Kind:    events.KindClaimRejected,
			Actor:   actor,
			ClaimID: claimID,
			Subject: c.Claimant,
			Amount:  c.Amount,
		})
		return nil
	})
}

// SettleClaim pays out an Approved claim's reservation and commits the
// Approved→Settled transition. If the payout fails the claim stays Approved
// and settlement can be retried; the pool consumes each reservation exactly
// once, so a retry cannot double-pay.
func (s *Service) SettleClaim(ctx context.Context, actor id.Identity, claimID id.ClaimID) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, uint64(claimID), func(ctx context.Context) error {
		c, err := s.load(ctx, claimID)
		if err != nil {
			return err
		}
		if c.State != StateApproved {
			return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s, not approved", c.State)
		}

		if err := s.pool.PayoutReservedClaim(ctx, claimID, c.Claimant); err != nil {
			s.metrics.IncRiskPoolFailure("payout")
			return err
		}

		if err := c.Settle(); err != nil {
			return err
		}
		if err := s.store.UpdateIf(ctx, c, StateApproved); err != nil {
			return s.translate(err)
		}

		s.metrics.IncClaimTransition(StateSettled.String())
		s.emit(ctx, events.Event{
			Kind:    events.KindClaimSettled,
			Actor:   actor,
			ClaimID: claimID,
			Subject: c.Claimant,
			Amount:  c.Amount,
		})
		if s.logger != nil {
			s.logger.InfoContext(ctx, "claim settled",
				"claim_id", claimID,
				"claimant", c.Claimant,
				"amount", c.Amount,
			)
		}
		return nil
	})
}

// GetClaim returns the full claim record. Public read.
func (s *Service) GetClaim(ctx context.Context, claimID id.ClaimID) (Claim, error) {
	return s.load(ctx, claimID)
}

// GetClaimState returns just the lifecycle state.
func (s *Service) GetClaimState(ctx context.Context, claimID id.ClaimID) (State, error) {
	c, err := s.load(ctx, claimID)
	if err != nil {
		return "", err
	}
	return c.State, nil
}

// ClaimForPolicy resolves the secondary index from policy to claim.
func (s *Service) ClaimForPolicy(ctx context.Context, policyID id.PolicyID) (id.ClaimID, error) {
	claimID, err := s.store.ClaimIDForPolicy(ctx, policyID)
	if err != nil {
		return 0, s.translate(err)
	}
	return claimID, nil
}

// ValidateClaimWithOracle runs the oracle gate standalone, outside an
// approval. The gate's audit recording is idempotent, so repeating the call
// with the same arguments is safe.
func (s *Service) ValidateClaimWithOracle(ctx context.Context, claimID id.ClaimID, dataID id.OracleDataID) error {
	if _, err := s.load(ctx, claimID); err != nil {
		return err
	}
	return s.gate.ValidateClaim(ctx, claimID, dataID)
}

// ClaimOracleData returns the oracle data reference recorded for a claim.
func (s *Service) ClaimOracleData(_ context.Context, claimID id.ClaimID) (id.OracleDataID, error) {
	return s.gate.ClaimOracleData(claimID)
}

func (s *Service) load(ctx context.Context, claimID id.ClaimID) (Claim, error) {
	c, err := s.store.Get(ctx, claimID)
	if err != nil {
		return Claim{}, s.translate(err)
	}
	return c, nil
}

func (s *Service) translate(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "claim not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "claim state changed concurrently")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeAlreadyExists, "claim already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "claim store")
	}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "claim event emit failed", "kind", event.Kind, "error", err)
	}
}
