package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
)

// ReportStore implements report.Writer and report.Reader on PostgreSQL.
type ReportStore struct {
	pool *pgxpool.Pool
}

// NewReportStore creates a PostgreSQL report store.
func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

// CreateTables bootstraps the report schema.
func (s *ReportStore) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating report tables: %w", err)
	}
	return nil
}

// WriteReport persists a report.
func (s *ReportStore) WriteReport(ctx context.Context, r *report.Report) error {
	if r == nil || r.ID == "" {
		return report.ErrInvalidReport
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reports (id, body, created_at) VALUES ($1, $2, $3)
	`, r.ID, r.Render(), created)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// ReadReport returns the text of the most recent report.
func (s *ReportStore) ReadReport(ctx context.Context) (string, error) {
	var body string
	err := s.pool.QueryRow(ctx, `
		SELECT body FROM reports ORDER BY created_at DESC LIMIT 1
	`).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", report.ErrNoReport
	}
	if err != nil {
		return "", fmt.Errorf("reading report: %w", err)
	}
	return body, nil
}
