package claims

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "coverline/pkg/domain"
	"coverline/pkg/platform/sentinel"
)

// PostgresStore persists claims in PostgreSQL. The unique constraint on
// policy_id is the one-claim-per-policy invariant: the duplicate check and
// the insert are the same statement, so no two submissions can race past it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

const createClaimSQL = `
INSERT INTO claims (policy_id, claimant, amount, state, submitted_at, oracle_data_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (s *PostgresStore) Create(ctx context.Context, c Claim) (id.ClaimID, error) {
	var claimID int64
	err := s.db.QueryRowContext(ctx, createClaimSQL,
		int64(c.PolicyID),
		c.Claimant.String(),
		c.Amount.Int64(),
		string(c.State),
		c.SubmittedAt,
		nullableOracleID(c.OracleDataID),
	).Scan(&claimID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert claim: %w", err)
	}
	return id.ClaimID(claimID), nil
}

const getClaimSQL = `
SELECT id, policy_id, claimant, amount, state, submitted_at, oracle_data_id
FROM claims WHERE id = $1`

func (s *PostgresStore) Get(ctx context.Context, claimID id.ClaimID) (Claim, error) {
	var (
		c        Claim
		rawID    int64
		policyID int64
		claimant string
		amount   int64
		state    string
		oracleID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, getClaimSQL, int64(claimID)).Scan(
		&rawID, &policyID, &claimant, &amount, &state, &c.SubmittedAt, &oracleID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Claim{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Claim{}, fmt.Errorf("select claim: %w", err)
	}
	c.ID = id.ClaimID(rawID)
	c.PolicyID = id.PolicyID(policyID)
	c.Claimant = id.Identity(claimant)
	c.Amount = id.Amount(amount)
	c.State = State(state)
	if oracleID.Valid {
		c.OracleDataID = id.OracleDataID(oracleID.Int64)
	}
	return c, nil
}

const updateClaimIfSQL = `
UPDATE claims SET state = $1, oracle_data_id = $2 WHERE id = $3 AND state = $4`

func (s *PostgresStore) UpdateIf(ctx context.Context, c Claim, expected State) error {
	res, err := s.db.ExecContext(ctx, updateClaimIfSQL,
		string(c.State),
		nullableOracleID(c.OracleDataID),
		int64(c.ID),
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update claim rows: %w", err)
	}
	if affected == 1 {
		return nil
	}
	if _, err := s.Get(ctx, c.ID); err != nil {
		return err
	}
	return sentinel.ErrInvalidState
}

const claimForPolicySQL = `SELECT id FROM claims WHERE policy_id = $1`

func (s *PostgresStore) ClaimIDForPolicy(ctx context.Context, policyID id.PolicyID) (id.ClaimID, error) {
	var claimID int64
	err := s.db.QueryRowContext(ctx, claimForPolicySQL, int64(policyID)).Scan(&claimID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select claim for policy: %w", err)
	}
	return id.ClaimID(claimID), nil
}

func nullableOracleID(v id.OracleDataID) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}
