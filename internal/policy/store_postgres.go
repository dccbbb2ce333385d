package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "coverline/pkg/domain"
	"coverline/pkg/platform/sentinel"
)

// PostgresStore persists policies in PostgreSQL. IDs come from the table's
// sequence, which preserves the monotonic-counter invariant across restarts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const createPolicySQL = `
INSERT INTO policies (holder, coverage_amount, premium_amount, start_time, end_time, state, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

func (s *PostgresStore) Create(ctx context.Context, p Policy) (id.PolicyID, error) {
	var policyID int64
	err := s.db.QueryRowContext(ctx, createPolicySQL,
		p.Holder.String(),
		p.CoverageAmount.Int64(),
		p.PremiumAmount.Int64(),
		p.StartTime,
		p.EndTime,
		string(p.State),
		p.CreatedAt,
	).Scan(&policyID)
	if err != nil {
		return 0, fmt.Errorf("insert policy: %w", err)
	}
	return id.PolicyID(policyID), nil
}

const getPolicySQL = `
SELECT id, holder, coverage_amount, premium_amount, start_time, end_time, state, created_at
FROM policies WHERE id = $1`

func (s *PostgresStore) Get(ctx context.Context, policyID id.PolicyID) (Policy, error) {
	var (
		p        Policy
		rawID    int64
		holder   string
		coverage int64
		premium  int64
		state    string
	)
	err := s.db.QueryRowContext(ctx, getPolicySQL, int64(policyID)).Scan(
		&rawID, &holder, &coverage, &premium, &p.StartTime, &p.EndTime, &state, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Policy{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Policy{}, fmt.Errorf("select policy: %w", err)
	}
	p.ID = id.PolicyID(rawID)
	p.Holder = id.Identity(holder)
	p.CoverageAmount = id.Amount(coverage)
	p.PremiumAmount = id.Amount(premium)
	p.State = State(state)
	return p, nil
}

const updatePolicyIfSQL = `
UPDATE policies SET state = $1 WHERE id = $2 AND state = $3`

func (s *PostgresStore) UpdateIf(ctx context.Context, p Policy, expected State) error {
	res, err := s.db.ExecContext(ctx, updatePolicyIfSQL, string(p.State), int64(p.ID), string(expected))
	if err != nil {
		return fmt.Errorf("update policy: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update policy rows: %w", err)
	}
	if affected == 1 {
		return nil
	}
	// Distinguish a missing row from a state mismatch.
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM policies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count policies: %w", err)
	}
	return uint64(count), nil
}
