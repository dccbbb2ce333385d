package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dErrors "coverline/pkg/domain-errors"
)

func TestStateGraph(t *testing.T) {
	t.Run("active may expire or cancel", func(t *testing.T) {
		assert.True(t, StateActive.CanTransitionTo(StateExpired))
		assert.True(t, StateActive.CanTransitionTo(StateCancelled))
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		for _, terminal := range []State{StateExpired, StateCancelled} {
			for _, next := range []State{StateActive, StateExpired, StateCancelled} {
				assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
			}
		}
	})

	t.Run("self transitions are rejected", func(t *testing.T) {
		assert.False(t, StateActive.CanTransitionTo(StateActive))
	})

	t.Run("validity", func(t *testing.T) {
		assert.True(t, StateActive.IsValid())
		assert.False(t, State("suspended").IsValid())
	})
}

func TestPolicyTransitions(t *testing.T) {
	now := time.Now().UTC()
	fresh := func() Policy {
		return New("holder-1", 1000, 50, now, now.Add(30*24*time.Hour), now)
	}

	t.Run("new policy is active", func(t *testing.T) {
		p := fresh()
		assert.Equal(t, StateActive, p.State)
		assert.True(t, p.IsActive())
	})

	t.Run("cancel active", func(t *testing.T) {
		p := fresh()
		assert.NoError(t, p.Cancel())
		assert.Equal(t, StateCancelled, p.State)
	})

	t.Run("expire active", func(t *testing.T) {
		p := fresh()
		assert.NoError(t, p.Expire())
		assert.Equal(t, StateExpired, p.State)
	})

	t.Run("cancel after expire fails", func(t *testing.T) {
		p := fresh()
		assert.NoError(t, p.Expire())
		err := p.Cancel()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		assert.Equal(t, StateExpired, p.State, "failed transition must not mutate state")
	})

	t.Run("expire twice fails", func(t *testing.T) {
		p := fresh()
		assert.NoError(t, p.Expire())
		assert.Error(t, p.Expire())
	})
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		RiskPool:        "risk-pool",
		MinCoverage:     1,
		MaxCoverage:     1_000_000,
		MinPremium:      1,
		MaxPremium:      100_000,
		MinDurationDays: 1,
		MaxDurationDays: DefaultMaxDurationDays,
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing risk pool", func(t *testing.T) {
		cfg := valid
		cfg.RiskPool = ""
		assert.True(t, dErrors.HasCode(cfg.Validate(), dErrors.CodeNotInitialized))
	})

	t.Run("inverted coverage bounds", func(t *testing.T) {
		cfg := valid
		cfg.MaxCoverage = cfg.MinCoverage - 1
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero premium floor", func(t *testing.T) {
		cfg := valid
		cfg.MinPremium = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero duration floor", func(t *testing.T) {
		cfg := valid
		cfg.MinDurationDays = 0
		assert.Error(t, cfg.Validate())
	})
}
