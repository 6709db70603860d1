// Package storage archives finished audit reports in Postgres.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/maciusman/seo-aiditor/internal/model"
)

var (
	// ErrNotFound is returned when no report has the requested ID.
	ErrNotFound = errors.New("storage: report not found")
	// ErrDuplicate is returned when a report with the same ID already exists.
	ErrDuplicate = errors.New("storage: report already archived")
)

// pq error codes.
const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_reports (
	id          UUID PRIMARY KEY,
	url         TEXT NOT NULL,
	audit_type  TEXT NOT NULL,
	final_score DOUBLE PRECISION NOT NULL,
	grade       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	body        JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS audit_issues (
	id          SERIAL PRIMARY KEY,
	report_id   UUID NOT NULL REFERENCES audit_reports(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	severity    TEXT NOT NULL,
	title       TEXT NOT NULL,
	impact      INT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	fix         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_issues_report_idx ON audit_issues (report_id, position);`

// Record is one archived audit.
type Record struct {
	ID         string
	URL        string
	AuditType  string
	FinalScore float64
	Grade      string
	CreatedAt  time.Time
	Body       json.RawMessage
	Issues     []model.Issue
}

// PostgresStore reads and writes Records.
type PostgresStore struct {
	db *sql.DB
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	return New(db), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the archive tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}

// Save stores the report header, body and issues in one transaction.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_reports (id, url, audit_type, final_score, grade, created_at, body)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.URL, rec.AuditType, rec.FinalScore, rec.Grade, createdAt, string(rec.Body))
	if err != nil {
		return translate(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_issues (report_id, position, severity, title, impact, description, fix)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("storage: prepare issues: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, is := range rec.Issues {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, string(is.Severity), is.Title, is.Impact, is.Description, is.Fix); err != nil {
			return translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

// Get loads a report and its issues in archived order.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	rec := Record{ID: id}
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT url, audit_type, final_score, grade, created_at, body
		 FROM audit_reports WHERE id = $1`, id).
		Scan(&rec.URL, &rec.AuditType, &rec.FinalScore, &rec.Grade, &rec.CreatedAt, &body)
	if err != nil {
		return nil, translate(err)
	}
	rec.Body = body

	rows, err := s.db.QueryContext(ctx,
		`SELECT severity, title, impact, description, fix
		 FROM audit_issues WHERE report_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, translate(err)
	}
	defer func() { _ = rows.Close() }()

	rec.Issues = []model.Issue{}
	for rows.Next() {
		var is model.Issue
		var severity string
		if err := rows.Scan(&severity, &is.Title, &is.Impact, &is.Description, &is.Fix); err != nil {
			return nil, fmt.Errorf("storage: scan issue: %w", err)
		}
		is.Severity = model.Severity(severity)
		rec.Issues = append(rec.Issues, is)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: read issues: %w", err)
	}
	return &rec, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
		case codeInvalidText:
			// A malformed UUID cannot match any row.
			return ErrNotFound
		}
	}
	return fmt.Errorf("storage: %w", err)
}
