//go:build integration

package claims_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverline/internal/claims"
	id "coverline/pkg/domain"
	"coverline/pkg/platform/sentinel"
	"coverline/pkg/testutil/containers"
)

const claimsSchema = `
CREATE TABLE IF NOT EXISTS claims (
	id             BIGSERIAL PRIMARY KEY,
	policy_id      BIGINT      NOT NULL UNIQUE,
	claimant       TEXT        NOT NULL,
	amount         BIGINT      NOT NULL,
	state          TEXT        NOT NULL,
	submitted_at   TIMESTAMPTZ NOT NULL,
	oracle_data_id BIGINT
)`

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *claims.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.Exec(context.Background(), claimsSchema)
	s.Require().NoError(err)
	s.store = claims.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "claims"))
}

func (s *PostgresStoreSuite) newClaim(policyID id.PolicyID) claims.Claim {
	return claims.Claim{
		PolicyID:    policyID,
		Claimant:    "claimant-1",
		Amount:      500,
		State:       claims.StateSubmitted,
		SubmittedAt: time.Now().UTC(),
	}
}

// =============================================================================
// Create
// =============================================================================

func (s *PostgresStoreSuite) TestCreateAssignsSequentialIDs() {
	ctx := context.Background()

	first, err := s.store.Create(ctx, s.newClaim(1))
	s.Require().NoError(err)
	second, err := s.store.Create(ctx, s.newClaim(2))
	s.Require().NoError(err)

	s.Equal(id.ClaimID(1), first)
	s.Equal(id.ClaimID(2), second)
}

func (s *PostgresStoreSuite) TestCreateRejectsSecondClaimForPolicy() {
	ctx := context.Background()

	_, err := s.store.Create(ctx, s.newClaim(1))
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, s.newClaim(1))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

// TestConcurrentSubmissionsAdmitOne verifies that concurrent submissions for
// the same policy result in exactly one stored claim. The unique constraint
// on policy_id is the arbiter, not application-level locking.
func (s *PostgresStoreSuite) TestConcurrentSubmissionsAdmitOne() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.store.Create(ctx, s.newClaim(42))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one submission should win")
	s.Equal(int32(goroutines-1), conflictCount.Load())

	claimID, err := s.store.ClaimIDForPolicy(ctx, 42)
	s.Require().NoError(err)
	s.NotZero(claimID)
}

// =============================================================================
// Get
// =============================================================================

func (s *PostgresStoreSuite) TestGetRoundTrip() {
	ctx := context.Background()

	claimID, err := s.store.Create(ctx, s.newClaim(7))
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, claimID)
	s.Require().NoError(err)
	s.Equal(claimID, got.ID)
	s.Equal(id.PolicyID(7), got.PolicyID)
	s.Equal(id.Identity("claimant-1"), got.Claimant)
	s.Equal(id.Amount(500), got.Amount)
	s.Equal(claims.StateSubmitted, got.State)
	s.True(got.OracleDataID.IsNil(), "oracle data id starts unset")
}

func (s *PostgresStoreSuite) TestGetUnknownClaim() {
	_, err := s.store.Get(context.Background(), 999)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// =============================================================================
// UpdateIf
// =============================================================================

func (s *PostgresStoreSuite) TestUpdateIfCommitsOnMatchingState() {
	ctx := context.Background()

	claimID, err := s.store.Create(ctx, s.newClaim(1))
	s.Require().NoError(err)

	c, err := s.store.Get(ctx, claimID)
	s.Require().NoError(err)
	c.State = claims.StateUnderReview

	s.Require().NoError(s.store.UpdateIf(ctx, c, claims.StateSubmitted))

	got, err := s.store.Get(ctx, claimID)
	s.Require().NoError(err)
	s.Equal(claims.StateUnderReview, got.State)
}

func (s *PostgresStoreSuite) TestUpdateIfRejectsStaleState() {
	ctx := context.Background()

	claimID, err := s.store.Create(ctx, s.newClaim(1))
	s.Require().NoError(err)

	c, err := s.store.Get(ctx, claimID)
	s.Require().NoError(err)
	c.State = claims.StateUnderReview
	s.Require().NoError(s.store.UpdateIf(ctx, c, claims.StateSubmitted))

	// A second writer holding the original snapshot loses.
	c.State = claims.StateRejected
	err = s.store.UpdateIf(ctx, c, claims.StateSubmitted)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PostgresStoreSuite) TestUpdateIfUnknownClaim() {
	c := s.newClaim(1)
	c.ID = 999
	c.State = claims.StateUnderReview
	err := s.store.UpdateIf(context.Background(), c, claims.StateSubmitted)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateIfPersistsOracleDataID() {
	ctx := context.Background()

	claimID, err := s.store.Create(ctx, s.newClaim(1))
	s.Require().NoError(err)

	c, err := s.store.Get(ctx, claimID)
	s.Require().NoError(err)
	c.State = claims.StateUnderReview
	c.OracleDataID = 77
	s.Require().NoError(s.store.UpdateIf(ctx, c, claims.StateSubmitted))

	got, err := s.store.Get(ctx, claimID)
	s.Require().NoError(err)
	s.Equal(id.OracleDataID(77), got.OracleDataID)
}

// =============================================================================
// ClaimIDForPolicy
// =============================================================================

func (s *PostgresStoreSuite) TestClaimIDForPolicy() {
	ctx := context.Background()

	claimID, err := s.store.Create(ctx, s.newClaim(5))
	s.Require().NoError(err)

	got, err := s.store.ClaimIDForPolicy(ctx, 5)
	s.Require().NoError(err)
	s.Equal(claimID, got)

	_, err = s.store.ClaimIDForPolicy(ctx, 6)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
