package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"certify/internal/issuance/models"
)

// Schema creates the issuance log table.
const Schema = `
CREATE TABLE IF NOT EXISTS issuance_log (
	run_id          TEXT PRIMARY KEY,
	outcome         TEXT NOT NULL,
	requester_email TEXT NOT NULL,
	username        TEXT NOT NULL,
	submission_code TEXT NOT NULL,
	full_name       TEXT NOT NULL DEFAULT '',
	reason          TEXT NOT NULL DEFAULT '',
	recorded_at     TIMESTAMPTZ NOT NULL
)`

// PostgresStore appends issuance records through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create issuance_log: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec models.IssuanceRecord) error {
	query := `
		INSERT INTO issuance_log (run_id, outcome, requester_email, username, submission_code, full_name, reason, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.pool.Exec(ctx, query,
		rec.RunID,
		string(rec.Outcome),
		rec.RequesterEmail,
		rec.Username,
		rec.SubmissionCode,
		rec.FullName,
		rec.Reason,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert issuance record: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]models.IssuanceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, outcome, requester_email, username, submission_code, full_name, reason, recorded_at
		FROM issuance_log
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query issuance log: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.IssuanceRecord, error) {
		var rec models.IssuanceRecord
		var outcome string
		err := row.Scan(&rec.RunID, &outcome, &rec.RequesterEmail, &rec.Username,
			&rec.SubmissionCode, &rec.FullName, &rec.Reason, &rec.RecordedAt)
		rec.Outcome = models.Outcome(outcome)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan issuance log: %w", err)
	}
	return records, nil
}
