// Package report provides the job-search report entities and the durable
// channel they are written to and read from.
package report

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one selected candidate in a report.
type Entry struct {
	Rank     int    `json:"rank"`
	URL      string `json:"url"`
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
}

// Report is the structured outcome of one pipeline run. Failed runs produce
// a report too, with Failure set and no entries, so the reader always learns
// why nothing was found.
type Report struct {
	ID        string    `json:"id"`
	JobTitle  string    `json:"job_title"`
	Location  string    `json:"location"`
	Collected int       `json:"collected"`
	Matches   int       `json:"matches"`
	Failure   string    `json:"failure,omitempty"`
	Entries   []Entry   `json:"entries,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Render formats the report as the human-readable text returned by the
// read-only accessor.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== REPORT: %s in %s ===\n\n", r.JobTitle, r.Location)
	if r.Failure != "" {
		fmt.Fprintf(&b, "No results: %s\n", r.Failure)
		return b.String()
	}
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "RANK: %d\nLINK: %s\nSCORE: %d%%\nAI: %s\n%s\n",
			e.Rank, e.URL, e.Score, e.Analysis, strings.Repeat("-", 50))
	}
	fmt.Fprintf(&b, "\nCollected %d candidates, %d met the match threshold.\n", r.Collected, r.Matches)
	return b.String()
}
