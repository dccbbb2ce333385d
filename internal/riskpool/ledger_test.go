package riskpool

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// =============================================================================
// Risk Pool Ledger Test Suite
// =============================================================================

type LedgerSuite struct {
	suite.Suite
	ledger *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ledger = NewLedger(1000, nil)
}

func (s *LedgerSuite) TestDeposit() {
	ctx := context.Background()

	s.Run("adds liquidity", func() {
		s.NoError(s.ledger.Deposit(ctx, 500))
		s.Equal(id.Amount(1500), s.ledger.AvailableLiquidity())
	})

	s.Run("non-positive amount", func() {
		err := s.ledger.Deposit(ctx, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("overflow is detected", func() {
		ledger := NewLedger(math.MaxInt64, nil)
		err := ledger.Deposit(ctx, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeOverflow))
		s.Equal(id.Amount(math.MaxInt64), ledger.AvailableLiquidity())
	})
}

func (s *LedgerSuite) TestReserveLiquidity() {
	ctx := context.Background()

	s.Run("moves funds from available to reserved", func() {
		s.NoError(s.ledger.ReserveLiquidity(ctx, 1, 400))
		s.Equal(id.Amount(600), s.ledger.AvailableLiquidity())
		s.Equal(id.Amount(400), s.ledger.ReservedTotal())
	})

	s.Run("second reservation for the same claim fails", func() {
		s.Require().NoError(s.ledger.ReserveLiquidity(ctx, 2, 100))
		err := s.ledger.ReserveLiquidity(ctx, 2, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("insufficient balance", func() {
		err := s.ledger.ReserveLiquidity(ctx, 3, 100_000)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
	})

	s.Run("nil claim id and non-positive amount", func() {
		s.Error(s.ledger.ReserveLiquidity(ctx, 0, 100))
		s.Error(s.ledger.ReserveLiquidity(ctx, 4, 0))
	})
}

func (s *LedgerSuite) TestPayoutReservedClaim() {
	ctx := context.Background()

	s.Run("consumes the reservation exactly once", func() {
		s.Require().NoError(s.ledger.ReserveLiquidity(ctx, 1, 400))

		s.NoError(s.ledger.PayoutReservedClaim(ctx, 1, "claimant-1"))
		s.Equal(id.Amount(0), s.ledger.ReservedTotal())

		err := s.ledger.PayoutReservedClaim(ctx, 1, "claimant-1")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("payout without a reservation fails", func() {
		err := s.ledger.PayoutReservedClaim(ctx, 9, "claimant-1")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("paid claim cannot re-reserve", func() {
		s.Require().NoError(s.ledger.ReserveLiquidity(ctx, 2, 100))
		s.Require().NoError(s.ledger.PayoutReservedClaim(ctx, 2, "claimant-1"))

		err := s.ledger.ReserveLiquidity(ctx, 2, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("missing claimant", func() {
		s.Require().NoError(s.ledger.ReserveLiquidity(ctx, 3, 100))
		err := s.ledger.PayoutReservedClaim(ctx, 3, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("payout does not return funds to available", func() {
		available := s.ledger.AvailableLiquidity()
		s.Require().NoError(s.ledger.ReserveLiquidity(ctx, 4, 100))
		s.Require().NoError(s.ledger.PayoutReservedClaim(ctx, 4, "claimant-1"))
		s.Equal(available-100, s.ledger.AvailableLiquidity())
	})
}
