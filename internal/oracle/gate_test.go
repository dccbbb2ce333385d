package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// =============================================================================
// Oracle Gate Test Suite
// =============================================================================

type GateSuite struct {
	suite.Suite
	client *InMemoryClient
	gate   *Gate
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.client = NewInMemoryClient()
	s.gate = NewGate(s.client, nil)
}

func (s *GateSuite) enable(minSubmissions uint32) {
	s.Require().NoError(s.gate.SetConfig(ValidationConfig{
		Oracle:         "oracle-1",
		Required:       true,
		MinSubmissions: minSubmissions,
	}))
}

func (s *GateSuite) TestSetConfig() {
	s.Run("missing oracle reference", func() {
		err := s.gate.SetConfig(ValidationConfig{Required: true, MinSubmissions: 3})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("config is replaced whole", func() {
		s.enable(3)
		s.Require().NoError(s.gate.SetConfig(ValidationConfig{Oracle: "oracle-2"}))

		cfg, err := s.gate.Config()
		s.Require().NoError(err)
		s.Equal(id.Identity("oracle-2"), cfg.Oracle)
		s.False(cfg.Required, "replacement must not inherit the previous Required flag")
		s.Zero(cfg.MinSubmissions)
	})

	s.Run("unset config reads not found", func() {
		gate := NewGate(s.client, nil)
		_, err := gate.Config()
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.False(gate.Required())
	})
}

func (s *GateSuite) TestValidateClaim() {
	ctx := context.Background()
	claimID := id.ClaimID(1)
	dataID := id.OracleDataID(11)

	s.Run("unconfigured gate fails closed", func() {
		err := s.gate.ValidateClaim(ctx, claimID, dataID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("configured but not required permits without contacting the oracle", func() {
		s.Require().NoError(s.gate.SetConfig(ValidationConfig{Oracle: "oracle-1", Required: false}))
		// No data registered: a collaborator call would fail.
		s.NoError(s.gate.ValidateClaim(ctx, claimID, dataID))
	})

	s.Run("nil data reference", func() {
		s.enable(3)
		err := s.gate.ValidateClaim(ctx, claimID, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeOracleValidationFailed))
	})

	s.Run("unknown data set", func() {
		s.enable(3)
		err := s.gate.ValidateClaim(ctx, claimID, id.OracleDataID(404))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("below minimum submissions", func() {
		s.enable(3)
		s.client.SetData(dataID, Resolution{Value: 100, Submissions: 2, Confidence: 90, Timestamp: time.Now()})

		err := s.gate.ValidateClaim(ctx, claimID, dataID)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientOracleSubmissions))
	})

	s.Run("stale data error propagates verbatim", func() {
		s.enable(3)
		s.client.SetData(dataID, Resolution{Value: 100, Submissions: 5, Confidence: 90, Timestamp: time.Now()})
		s.client.MarkStale(dataID)

		err := s.gate.ValidateClaim(ctx, claimID, dataID)
		s.True(dErrors.HasCode(err, dErrors.CodeOracleDataStale))
	})

	s.Run("outlier error propagates verbatim", func() {
		s.enable(3)
		s.client.SetData(dataID, Resolution{Value: 100, Submissions: 5, Confidence: 90, Timestamp: time.Now()})
		s.client.MarkOutlier(dataID)

		err := s.gate.ValidateClaim(ctx, claimID, dataID)
		s.True(dErrors.HasCode(err, dErrors.CodeOracleOutlierDetected))
	})

	s.Run("valid data passes and records the association", func() {
		s.enable(3)
		s.client.SetData(dataID, Resolution{Value: 100, Submissions: 5, Confidence: 95, Timestamp: time.Now()})

		s.NoError(s.gate.ValidateClaim(ctx, claimID, dataID))

		recorded, err := s.gate.ClaimOracleData(claimID)
		s.NoError(err)
		s.Equal(dataID, recorded)
	})

	s.Run("failed validation records nothing", func() {
		s.enable(3)
		other := id.ClaimID(77)
		s.Error(s.gate.ValidateClaim(ctx, other, id.OracleDataID(404)))

		_, err := s.gate.ClaimOracleData(other)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("revalidation overwrites the audit record", func() {
		s.enable(3)
		second := id.OracleDataID(12)
		s.client.SetData(dataID, Resolution{Value: 100, Submissions: 5, Confidence: 95, Timestamp: time.Now()})
		s.client.SetData(second, Resolution{Value: 101, Submissions: 5, Confidence: 95, Timestamp: time.Now()})

		s.NoError(s.gate.ValidateClaim(ctx, claimID, dataID))
		s.NoError(s.gate.ValidateClaim(ctx, claimID, second))

		recorded, err := s.gate.ClaimOracleData(claimID)
		s.NoError(err)
		s.Equal(second, recorded)
	})
}
