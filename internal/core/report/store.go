package report

import "context"

// Writer persists reports.
type Writer interface {
	WriteReport(ctx context.Context, r *Report) error
}

// Reader is the read-only sibling of Writer: it returns the rendered text
// of the most recent report, or ErrNoReport.
type Reader interface {
	ReadReport(ctx context.Context) (string, error)
}
