package riskpool

import (
	"context"
	"log/slog"
	"sync"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// Ledger is the in-process pool implementation. Available liquidity and live
// reservations are tracked separately so a reservation can only be consumed
// once, and double reservations for a claim are rejected.
type Ledger struct {
	mu        sync.Mutex
	available id.Amount
	reserved  map[id.ClaimID]reservation
	paid      map[id.ClaimID]payout
	logger    *slog.Logger
}

type reservation struct {
	amount id.Amount
}

type payout struct {
	amount   id.Amount
	claimant id.Identity
}

func NewLedger(initial id.Amount, logger *slog.Logger) *Ledger {
	return &Ledger{
		available: initial,
		reserved:  make(map[id.ClaimID]reservation),
		paid:      make(map[id.ClaimID]payout),
		logger:    logger,
	}
}

// Deposit adds liquidity to the pool.
func (l *Ledger) Deposit(_ context.Context, amount id.Amount) error {
	if !amount.Positive() {
		return dErrors.New(dErrors.CodeInvalidInput, "deposit amount must be positive")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	sum, ok := l.available.AddChecked(amount)
	if !ok {
		return dErrors.New(dErrors.CodeOverflow, "pool balance overflow")
	}
	l.available = sum
	return nil
}

func (l *Ledger) ReserveLiquidity(ctx context.Context, claimID id.ClaimID, amount id.Amount) error {
	if claimID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "claim id is required")
	}
	if !amount.Positive() {
		return dErrors.New(dErrors.CodeInvalidInput, "reservation amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.reserved[claimID]; exists {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim %s already holds a reservation", claimID)
	}
	if _, done := l.paid[claimID]; done {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim %s was already paid out", claimID)
	}
	if l.available < amount {
		return dErrors.Newf(dErrors.CodeInsufficientFunds, "pool holds %s, claim requires %s", l.available, amount)
	}

	l.available -= amount
	l.reserved[claimID] = reservation{amount: amount}

	if l.logger != nil {
		l.logger.InfoContext(ctx, "liquidity reserved",
			"claim_id", claimID,
			"amount", amount,
			"available", l.available,
		)
	}
	return nil
}

func (l *Ledger) PayoutReservedClaim(ctx context.Context, claimID id.ClaimID, claimant id.Identity) error {
	if claimID.IsNil() || claimant.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "claim id and claimant are required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	res, exists := l.reserved[claimID]
	if !exists {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim %s has no live reservation", claimID)
	}

	delete(l.reserved, claimID)
	l.paid[claimID] = payout{amount: res.amount, claimant: claimant}

	if l.logger != nil {
		l.logger.InfoContext(ctx, "reserved claim paid out",
			"claim_id", claimID,
			"claimant", claimant,
			"amount", res.amount,
		)
	}
	return nil
}

// AvailableLiquidity returns the unreserved pool balance.
func (l *Ledger) AvailableLiquidity() id.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.available
}

// ReservedTotal returns the sum of live reservations.
func (l *Ledger) ReservedTotal() id.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total id.Amount
	for _, r := range l.reserved {
		total += r.amount
	}
	return total
}
