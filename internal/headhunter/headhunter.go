// Package headhunter implements the paid job search pipeline: multi-page
// collection of job postings, resume-against-description scoring, and
// ranked report generation.
package headhunter

import (
	"context"
	"fmt"
)

// Match threshold and page cap for a search run.
const (
	MatchThreshold = 50
	MaxPages       = 5
)

// CostPerJob is the per-posting price quoted before a search runs.
const CostPerJob = 1.50

// Query is a validated job search request.
type Query struct {
	JobTitle string `json:"job_title" validate:"required"`
	Country  string `json:"country"   validate:"required"`
	Location string `json:"location"  validate:"required"`
	JobLimit int    `json:"job_limit" validate:"required,gt=0"`
}

// Cost returns the price quoted for this query.
func (q Query) Cost() float64 {
	return float64(q.JobLimit) * CostPerJob
}

// Candidate is one scored job posting.
type Candidate struct {
	Rank     int    `json:"rank"`
	URL      string `json:"url"`
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
}

// Status classifies the outcome of a pipeline run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is the outcome of a pipeline run. Domain failures (no postings,
// missing resume, blocked pages) are reported here, not as Go errors.
type Result struct {
	Status    Status
	Reason    string
	Query     Query
	Collected int
	Selected  []Candidate
	Matches   int
}

// Summary renders the one-line outcome surfaced back into the conversation.
func (r *Result) Summary() string {
	if r.Status == StatusFailed {
		return fmt.Sprintf("Search failed: %s", r.Reason)
	}
	out := fmt.Sprintf("Done! Scanned %d postings, selected %d, %d scored %d%% or higher.",
		r.Collected, len(r.Selected), r.Matches, MatchThreshold)
	for _, c := range r.Selected {
		out += fmt.Sprintf("\n#%d (%d%%): %s", c.Rank, c.Score, c.URL)
	}
	return out
}

// Element is a matched node in a loaded page.
type Element interface {
	// Text returns the node's concatenated text content.
	Text() string
	// Attr returns the named attribute value, if present.
	Attr(name string) (string, bool)
}

// Page is one loaded document.
type Page interface {
	// Select returns all elements matching the selector, in document order.
	Select(selector string) []Element
	// First returns the first element matching the selector.
	First(selector string) (Element, bool)
}

// Browser fetches pages. Implementations own session state such as cookies
// and politeness delays.
type Browser interface {
	Navigate(ctx context.Context, url string) (Page, error)
}

// Scorer produces a free-text match analysis for a resume against a job
// description. The text is expected to carry a "SCORE: X%" marker.
type Scorer interface {
	ScoreCandidate(ctx context.Context, resume, description string) (string, error)
}
