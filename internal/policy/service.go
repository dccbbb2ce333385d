package policy

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"coverline/internal/authz"
	"coverline/internal/control"
	"coverline/internal/events"
	"coverline/internal/platform/metrics"
	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
	"coverline/pkg/platform/sentinel"
)

const secondsPerDay = 86400

// Service enforces issuance validation and the policy lifecycle. It keeps
// orchestration out of transports and the lifecycle graph inside the Policy
// type.
type Service struct {
	store      Store
	authorizer authz.Authorizer
	pause      *control.Switch
	cfg        Config
	bus        events.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewService(store Store, authorizer authz.Authorizer, pause *control.Switch, cfg Config, bus events.Publisher, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	if store == nil || authorizer == nil || pause == nil {
		return nil, dErrors.New(dErrors.CodeNotInitialized, "policy service requires store, authorizer, and pause switch")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		store:      store,
		authorizer: authorizer,
		pause:      pause,
		cfg:        cfg,
		bus:        bus,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// IssuePolicy validates the parameters and mints a new Active policy.
//
// Errors: CodeUnauthorized when the manager lacks the policy.manage
// capability; CodePaused while the system is paused; CodeInvalidAmount /
// CodeInvalidPremium for out-of-bounds values; CodeInvalidInput for a zero or
// over-limit duration; CodeOverflow when the end time is not representable.
func (s *Service) IssuePolicy(ctx context.Context, manager, holder id.Identity, coverage, premium id.Amount, durationDays uint32) (id.PolicyID, error) {
	if err := s.authorizer.Require(ctx, manager, id.CapabilityPolicyManage); err != nil {
		return 0, err
	}
	if s.pause.Paused() {
		return 0, dErrors.New(dErrors.CodePaused, "policy issuance is paused")
	}
	if holder.IsNil() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "holder identity is required")
	}
	if coverage < s.cfg.MinCoverage || coverage > s.cfg.MaxCoverage {
		return 0, dErrors.Newf(dErrors.CodeInvalidAmount,
			"coverage %s outside bounds [%s, %s]", coverage, s.cfg.MinCoverage, s.cfg.MaxCoverage)
	}
	if premium < s.cfg.MinPremium || premium > s.cfg.MaxPremium {
		return 0, dErrors.Newf(dErrors.CodeInvalidPremium,
			"premium %s outside bounds [%s, %s]", premium, s.cfg.MinPremium, s.cfg.MaxPremium)
	}
	if durationDays < s.cfg.MinDurationDays || durationDays > s.cfg.MaxDurationDays {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput,
			"duration must be between %d and %d days", s.cfg.MinDurationDays, s.cfg.MaxDurationDays)
	}

	start := s.now().UTC()
	endUnix, ok := addChecked(start.Unix(), int64(durationDays)*secondsPerDay)
	if !ok {
		return 0, dErrors.New(dErrors.CodeOverflow, "policy end time overflows")
	}
	end := time.Unix(endUnix, 0).UTC()

	policyID, err := s.store.Create(ctx, New(holder, coverage, premium, start, end, start))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "persist policy")
	}

	if s.metrics != nil {
		s.metrics.PoliciesIssued.Inc()
	}
	s.emit(ctx, events.Event{
		Kind:         events.KindPolicyIssued,
		Actor:        manager,
		PolicyID:     policyID,
		Subject:      holder,
		Amount:       coverage,
		Premium:      premium,
		DurationDays: durationDays,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "policy issued",
			"policy_id", policyID,
			"holder", holder,
			"coverage", coverage,
			"premium", premium,
			"duration_days", durationDays,
		)
	}
	return policyID, nil
}

// CancelPolicy moves an Active policy to Cancelled. Not idempotent by design:
// a second call against a terminal policy fails rather than silently
// succeeding.
func (s *Service) CancelPolicy(ctx context.Context, actor id.Identity, policyID id.PolicyID) error {
	return s.transition(ctx, actor, policyID, StateCancelled, events.KindPolicyCancelled)
}

// ExpirePolicy moves an Active policy to Expired.
func (s *Service) ExpirePolicy(ctx context.Context, actor id.Identity, policyID id.PolicyID) error {
	return s.transition(ctx, actor, policyID, StateExpired, events.KindPolicyExpired)
}

func (s *Service) transition(ctx context.Context, actor id.Identity, policyID id.PolicyID, target State, kind events.Kind) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}

	p, err := s.load(ctx, policyID)
	if err != nil {
		return err
	}

	switch target {
	case StateCancelled:
		err = p.Cancel()
	case StateExpired:
		err = p.Expire()
	default:
		err = dErrors.Newf(dErrors.CodeInvalidStateTransition, "unsupported target state %s", target)
	}
	if err != nil {
		return err
	}

	if err := s.store.UpdateIf(ctx, p, StateActive); err != nil {
		return s.translate(err)
	}

	s.metrics.IncPolicyTransition(target.String())
	s.emit(ctx, events.Event{Kind: kind, Actor: actor, PolicyID: policyID, Subject: p.Holder})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "policy transitioned",
			"policy_id", policyID,
			"state", target,
		)
	}
	return nil
}

// GetPolicy returns the full policy record. Public read, no authorization.
func (s *Service) GetPolicy(ctx context.Context, policyID id.PolicyID) (Policy, error) {
	return s.load(ctx, policyID)
}

// GetPolicyState returns just the lifecycle state.
func (s *Service) GetPolicyState(ctx context.Context, policyID id.PolicyID) (State, error) {
	p, err := s.load(ctx, policyID)
	if err != nil {
		return "", err
	}
	return p.State, nil
}

// GetPolicyHolder returns the holder identity.
func (s *Service) GetPolicyHolder(ctx context.Context, policyID id.PolicyID) (id.Identity, error) {
	p, err := s.load(ctx, policyID)
	if err != nil {
		return "", err
	}
	return p.Holder, nil
}

// GetCoverageAmount returns the covered amount.
func (s *Service) GetCoverageAmount(ctx context.Context, policyID id.PolicyID) (id.Amount, error) {
	p, err := s.load(ctx, policyID)
	if err != nil {
		return 0, err
	}
	return p.CoverageAmount, nil
}

// GetPremiumAmount returns the premium amount.
func (s *Service) GetPremiumAmount(ctx context.Context, policyID id.PolicyID) (id.Amount, error) {
	p, err := s.load(ctx, policyID)
	if err != nil {
		return 0, err
	}
	return p.PremiumAmount, nil
}

// GetPolicyDates returns the coverage window.
func (s *Service) GetPolicyDates(ctx context.Context, policyID id.PolicyID) (start, end time.Time, err error) {
	p, err := s.load(ctx, policyID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return p.StartTime, p.EndTime, nil
}

// PolicyExists reports whether a policy id is registered. Used by the claims
// engine, which only needs existence, not the record.
func (s *Service) PolicyExists(ctx context.Context, policyID id.PolicyID) (bool, error) {
	_, err := s.store.Get(ctx, policyID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.translate(err)
	}
	return true, nil
}

// PolicyCount returns how many policies were ever issued.
func (s *Service) PolicyCount(ctx context.Context) (uint64, error) {
	return s.store.Count(ctx)
}

// Config returns the issuance bounds and collaborator references.
func (s *Service) Config() Config {
	return s.cfg
}

// RiskPool returns the configured risk-pool reference.
func (s *Service) RiskPool() id.Identity {
	return s.cfg.RiskPool
}

func (s *Service) load(ctx context.Context, policyID id.PolicyID) (Policy, error) {
	p, err := s.store.Get(ctx, policyID)
	if err != nil {
		return Policy{}, s.translate(err)
	}
	return p, nil
}

func (s *Service) translate(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "policy not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "policy state changed concurrently")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "policy store")
	}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "policy event emit failed", "kind", event.Kind, "error", err)
	}
}

// addChecked returns a+b and reports whether the addition stayed in range.
func addChecked(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, false
	}
	return a + b, true
}
