package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	id "coverline/pkg/domain"

	"github.com/google/uuid"
)

// PostgresJournal persists events in an append-only table. When the caller has
// opened a transaction (via pkg/platform/tx) the append joins it, so the event
// row commits or rolls back with the state mutation.
type PostgresJournal struct {
	db *sql.DB
}

func NewPostgresJournal(db *sql.DB) *PostgresJournal {
	return &PostgresJournal{db: db}
}

const appendEventSQL = `
INSERT INTO events (id, kind, ts, actor, policy_id, claim_id, subject, amount, premium, duration_days, capability, oracle_data_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (j *PostgresJournal) Append(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, appendEventSQL,
		event.ID,
		string(event.Kind),
		event.Timestamp,
		nullableString(event.Actor.String()),
		nullableUint(uint64(event.PolicyID)),
		nullableUint(uint64(event.ClaimID)),
		nullableString(event.Subject.String()),
		event.Amount.Int64(),
		event.Premium.Int64(),
		int64(event.DurationDays),
		nullableString(event.Capability.String()),
		nullableUint(uint64(event.OracleDataID)),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

const listEventsSQL = `
SELECT id, kind, ts, actor, policy_id, claim_id, subject, amount, premium, duration_days, capability, oracle_data_id
FROM events WHERE %s = $1 ORDER BY ts ASC`

func (j *PostgresJournal) ListByPolicy(ctx context.Context, policyID uint64) ([]Event, error) {
	return j.list(ctx, fmt.Sprintf(listEventsSQL, "policy_id"), policyID)
}

func (j *PostgresJournal) ListByClaim(ctx context.Context, claimID uint64) ([]Event, error) {
	return j.list(ctx, fmt.Sprintf(listEventsSQL, "claim_id"), claimID)
}

func (j *PostgresJournal) list(ctx context.Context, query string, key uint64) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx, query, int64(key))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e            Event
			actor        sql.NullString
			policyID     sql.NullInt64
			claimID      sql.NullInt64
			subject      sql.NullString
			amount       int64
			premium      int64
			durationDays int64
			capability   sql.NullString
			oracleDataID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Timestamp, &actor, &policyID, &claimID, &subject,
			&amount, &premium, &durationDays, &capability, &oracleDataID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Actor = id.Identity(actor.String)
		e.PolicyID = id.PolicyID(policyID.Int64)
		e.ClaimID = id.ClaimID(claimID.Int64)
		e.Subject = id.Identity(subject.String)
		e.Amount = id.Amount(amount)
		e.Premium = id.Amount(premium)
		e.DurationDays = uint32(durationDays)
		e.Capability = id.Capability(capability.String)
		e.OracleDataID = id.OracleDataID(oracleDataID.Int64)
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableUint(v uint64) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}
