package inmemory

import (
	"context"
	"sync"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
)

// ReportStore implements report.Writer and report.Reader in memory.
type ReportStore struct {
	mu      sync.RWMutex
	reports []*report.Report
}

// NewReportStore creates an empty in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// WriteReport appends a report. Earlier reports are retained.
func (s *ReportStore) WriteReport(_ context.Context, r *report.Report) error {
	if r == nil || r.ID == "" {
		return report.ErrInvalidReport
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *r
	stored.Entries = append([]report.Entry(nil), r.Entries...)
	s.reports = append(s.reports, &stored)
	return nil
}

// ReadReport returns the rendered text of the most recent report.
func (s *ReportStore) ReadReport(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.reports) == 0 {
		return "", report.ErrNoReport
	}
	return s.reports[len(s.reports)-1].Render(), nil
}

// Count returns the number of stored reports. Test helper.
func (s *ReportStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
