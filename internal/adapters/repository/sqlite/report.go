package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
)

// ReportStore implements report.Writer and report.Reader on SQLite.
// Rendered report text is stored so the reader needs no re-rendering.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a SQLite report store.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, body, created_at)
		VALUES (?, ?, ?)
	`, r.ID, r.Render(), created.UnixNano())
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// ReadReport returns the text of the most recent report.
func (s *ReportStore) ReadReport(ctx context.Context) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM reports ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", report.ErrNoReport
	}
	if err != nil {
		return "", fmt.Errorf("reading report: %w", err)
	}
	return body, nil
}
