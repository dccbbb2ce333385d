package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverline/internal/authz"
	"coverline/internal/control"
	"coverline/internal/events"
	"coverline/internal/oracle"
	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

const (
	adminID   = id.Identity("admin")
	managerID = id.Identity("manager")
	holderID  = id.Identity("holder-1")
)

// =============================================================================
// Policy Service Test Suite
// =============================================================================

type PolicyServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	roles   *authz.Registry
	pause   *control.Switch
	journal *events.InMemoryJournal
	service *Service
}

func TestPolicyServiceSuite(t *testing.T) {
	suite.Run(t, new(PolicyServiceSuite))
}

func (s *PolicyServiceSuite) SetupTest() {
	ctx := context.Background()

	s.store = NewInMemoryStore()
	s.journal = events.NewInMemoryJournal()
	s.pause = control.NewSwitch()

	s.roles = authz.NewRegistry(nil, nil)
	s.Require().NoError(s.roles.Initialize(ctx, adminID))
	s.Require().NoError(s.roles.Grant(ctx, adminID, managerID, id.CapabilityPolicyManage))

	var err error
	s.service, err = NewService(s.store, s.roles, s.pause, Config{
		RiskPool:        "risk-pool",
		MinCoverage:     100,
		MaxCoverage:     1_000_000,
		MinPremium:      10,
		MaxPremium:      100_000,
		MinDurationDays: 1,
		MaxDurationDays: DefaultMaxDurationDays,
	}, events.NewBus(s.journal, 8, nil), nil, nil)
	s.Require().NoError(err)
}

func (s *PolicyServiceSuite) issue() id.PolicyID {
	policyID, err := s.service.IssuePolicy(context.Background(), managerID, holderID, 1000, 50, 30)
	s.Require().NoError(err)
	return policyID
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *PolicyServiceSuite) TestNewService() {
	s.Run("nil store returns error", func() {
		_, err := NewService(nil, s.roles, s.pause, s.service.Config(), nil, nil, nil)
		s.Error(err)
	})

	s.Run("invalid config returns error", func() {
		_, err := NewService(s.store, s.roles, s.pause, Config{}, nil, nil, nil)
		s.Error(err)
	})
}

// =============================================================================
// Issuance Tests
// =============================================================================

func (s *PolicyServiceSuite) TestIssuePolicy() {
	ctx := context.Background()

	s.Run("issues an active policy with computed end time", func() {
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		s.service.now = func() time.Time { return fixed }

		policyID := s.issue()
		s.False(policyID.IsNil())

		p, err := s.service.GetPolicy(ctx, policyID)
		s.Require().NoError(err)
		s.Equal(StateActive, p.State)
		s.Equal(holderID, p.Holder)
		s.Equal(id.Amount(1000), p.CoverageAmount)
		s.Equal(id.Amount(50), p.PremiumAmount)
		s.Equal(fixed, p.StartTime)
		s.Equal(fixed.Add(30*24*time.Hour), p.EndTime)
	})

	s.Run("ids are monotonic", func() {
		first := s.issue()
		second := s.issue()
		s.Greater(uint64(second), uint64(first))
	})

	s.Run("unknown manager is unauthorized", func() {
		_, err := s.service.IssuePolicy(ctx, "stranger", holderID, 1000, 50, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("admin can issue without an explicit grant", func() {
		_, err := s.service.IssuePolicy(ctx, adminID, holderID, 1000, 50, 30)
		s.NoError(err)
	})

	s.Run("rejected while paused", func() {
		s.Require().NoError(s.pauseSystem())
		defer s.unpauseSystem()

		_, err := s.service.IssuePolicy(ctx, managerID, holderID, 1000, 50, 30)
		s.True(dErrors.HasCode(err, dErrors.CodePaused))
	})

	s.Run("missing holder", func() {
		_, err := s.service.IssuePolicy(ctx, managerID, "", 1000, 50, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("coverage bounds", func() {
		_, err := s.service.IssuePolicy(ctx, managerID, holderID, 99, 50, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidAmount))

		_, err = s.service.IssuePolicy(ctx, managerID, holderID, 1_000_001, 50, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	})

	s.Run("premium bounds", func() {
		_, err := s.service.IssuePolicy(ctx, managerID, holderID, 1000, 9, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidPremium))
	})

	s.Run("duration bounds", func() {
		_, err := s.service.IssuePolicy(ctx, managerID, holderID, 1000, 50, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.service.IssuePolicy(ctx, managerID, holderID, 1000, 50, DefaultMaxDurationDays+1)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.service.IssuePolicy(ctx, managerID, holderID, 1000, 50, DefaultMaxDurationDays)
		s.NoError(err)
	})

	s.Run("issuance emits policy_issued", func() {
		policyID := s.issue()
		matched := false
		for _, e := range s.journal.All() {
			if e.Kind == events.KindPolicyIssued && e.PolicyID == policyID {
				matched = true
				s.Equal(managerID, e.Actor)
				s.Equal(holderID, e.Subject)
				s.Equal(uint32(30), e.DurationDays)
			}
		}
		s.True(matched, "journal should hold the issuance event")
	})
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func (s *PolicyServiceSuite) TestCancelPolicy() {
	ctx := context.Background()

	s.Run("cancels an active policy", func() {
		policyID := s.issue()
		s.NoError(s.service.CancelPolicy(ctx, adminID, policyID))

		state, err := s.service.GetPolicyState(ctx, policyID)
		s.Require().NoError(err)
		s.Equal(StateCancelled, state)
	})

	s.Run("second cancel fails", func() {
		policyID := s.issue()
		s.Require().NoError(s.service.CancelPolicy(ctx, adminID, policyID))

		err := s.service.CancelPolicy(ctx, adminID, policyID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("requires admin", func() {
		policyID := s.issue()
		err := s.service.CancelPolicy(ctx, managerID, policyID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown policy", func() {
		err := s.service.CancelPolicy(ctx, adminID, id.PolicyID(9999))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PolicyServiceSuite) TestExpirePolicy() {
	ctx := context.Background()

	policyID := s.issue()
	s.NoError(s.service.ExpirePolicy(ctx, adminID, policyID))

	state, err := s.service.GetPolicyState(ctx, policyID)
	s.Require().NoError(err)
	s.Equal(StateExpired, state)

	s.Run("cancel after expire fails", func() {
		err := s.service.CancelPolicy(ctx, adminID, policyID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

// =============================================================================
// Read Tests
// =============================================================================

func (s *PolicyServiceSuite) TestReads() {
	ctx := context.Background()
	policyID := s.issue()

	s.Run("holder", func() {
		holder, err := s.service.GetPolicyHolder(ctx, policyID)
		s.NoError(err)
		s.Equal(holderID, holder)
	})

	s.Run("amounts", func() {
		coverage, err := s.service.GetCoverageAmount(ctx, policyID)
		s.NoError(err)
		s.Equal(id.Amount(1000), coverage)

		premium, err := s.service.GetPremiumAmount(ctx, policyID)
		s.NoError(err)
		s.Equal(id.Amount(50), premium)
	})

	s.Run("dates", func() {
		start, end, err := s.service.GetPolicyDates(ctx, policyID)
		s.NoError(err)
		s.True(end.After(start))
	})

	s.Run("exists", func() {
		ok, err := s.service.PolicyExists(ctx, policyID)
		s.NoError(err)
		s.True(ok)

		ok, err = s.service.PolicyExists(ctx, id.PolicyID(9999))
		s.NoError(err)
		s.False(ok)
	})

	s.Run("count tracks issuance", func() {
		before, err := s.service.PolicyCount(ctx)
		s.Require().NoError(err)
		s.issue()
		after, err := s.service.PolicyCount(ctx)
		s.Require().NoError(err)
		s.Equal(before+1, after)
	})

	s.Run("unknown policy reads fail with not found", func() {
		_, err := s.service.GetPolicy(ctx, id.PolicyID(424242))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// pauseSystem flips the switch directly; pause authorization is covered by the
// control service tests.
func (s *PolicyServiceSuite) pauseSystem() error {
	svc, err := control.NewService(s.roles, s.pause, newTestGate(), nil, nil)
	if err != nil {
		return err
	}
	return svc.Pause(context.Background(), adminID)
}

func (s *PolicyServiceSuite) unpauseSystem() {
	svc, err := control.NewService(s.roles, s.pause, newTestGate(), nil, nil)
	s.Require().NoError(err)
	s.Require().NoError(svc.Unpause(context.Background(), adminID))
}

func newTestGate() *oracle.Gate {
	return oracle.NewGate(oracle.NewInMemoryClient(), nil)
}
