package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderWithEntries(t *testing.T) {
	r := &Report{
		JobTitle:  "Data Engineer",
		Location:  "Dubai",
		Collected: 6,
		Matches:   2,
		Entries: []Entry{
			{Rank: 1, URL: "https://x/viewjob?jk=a", Score: 90, Analysis: "Strong overlap. SCORE: 90%"},
			{Rank: 2, URL: "https://x/viewjob?jk=b", Score: 60, Analysis: "Partial fit. SCORE: 60%"},
		},
	}

	text := r.Render()
	assert.True(t, strings.HasPrefix(text, "=== REPORT: Data Engineer in Dubai ==="))
	assert.Contains(t, text, "RANK: 1")
	assert.Contains(t, text, "LINK: https://x/viewjob?jk=a")
	assert.Contains(t, text, "SCORE: 90%")
	assert.Contains(t, text, strings.Repeat("-", 50))
	assert.Contains(t, text, "Collected 6 candidates, 2 met the match threshold.")

	// Entries render in rank order.
	assert.Less(t, strings.Index(text, "jk=a"), strings.Index(text, "jk=b"))
}

func TestRenderFailure(t *testing.T) {
	r := &Report{
		JobTitle: "Data Engineer",
		Location: "Dubai",
		Failure:  "no job postings found",
	}

	text := r.Render()
	assert.Contains(t, text, "No results: no job postings found")
	assert.NotContains(t, text, "RANK:")
	assert.NotContains(t, text, "Collected")
}
