package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"certify/internal/issuance/models"
)

// Schema is the table the refresh job fills. position preserves export order.
const Schema = `
CREATE TABLE IF NOT EXISTS reference_records (
	position        BIGSERIAL PRIMARY KEY,
	username        TEXT NOT NULL,
	submission_code TEXT NOT NULL,
	full_name       TEXT NOT NULL
)`

type referenceRow struct {
	Username       string `db:"username"`
	SubmissionCode string `db:"submission_code"`
	FullName       string `db:"full_name"`
}

// PostgresStore reads the reference table from PostgreSQL.
type PostgresStore struct {
	db    *sqlx.DB
	query string
}

// OpenPostgres connects through lib/pq and prepares the snapshot query.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect reference database: %w", err)
	}
	s, err := NewPostgres(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgres builds a store over an existing connection.
func NewPostgres(db *sqlx.DB, table string) (*PostgresStore, error) {
	query, _, err := goqu.Dialect("postgres").
		From(table).
		Select("username", "submission_code", "full_name").
		Order(goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build reference query: %w", err)
	}
	return &PostgresStore{db: db, query: query}, nil
}

func (s *PostgresStore) Snapshot(ctx context.Context) ([]models.ReferenceRecord, error) {
	var rows []referenceRow
	if err := s.db.SelectContext(ctx, &rows, s.query); err != nil {
		return nil, fmt.Errorf("select reference records: %w", err)
	}
	records := make([]models.ReferenceRecord, len(rows))
	for i, r := range rows {
		records[i] = models.ReferenceRecord(r)
	}
	return records, nil
}

// Health pings the database.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
