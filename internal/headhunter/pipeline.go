package headhunter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/infrastructure/metrics"
)

const defaultConcurrency = 4

// Options configures a Pipeline.
type Options struct {
	// ResumePath is the file holding the user's resume text.
	ResumePath string
	// Concurrency bounds parallel scoring calls. Zero means the default.
	Concurrency int
	Logger      zerolog.Logger
}

// Pipeline runs the scrape, score, and rank stages of a job search.
type Pipeline struct {
	browser     Browser
	scorer      Scorer
	reports     report.Writer
	validate    *validator.Validate
	resumePath  string
	concurrency int
	log         zerolog.Logger
}

// New creates a pipeline over a browser, a scorer, and a report sink.
func New(browser Browser, scorer Scorer, reports report.Writer, opts Options) *Pipeline {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{
		browser:     browser,
		scorer:      scorer,
		reports:     reports,
		validate:    validator.New(),
		resumePath:  opts.ResumePath,
		concurrency: concurrency,
		log:         opts.Logger,
	}
}

// Run executes a search. Domain failures never surface as Go errors: every
// outcome, including panics from collaborators, becomes a Result. Failures
// after validation are also persisted as failure reports so the
// conversation can refer back to them.
func (p *Pipeline) Run(ctx context.Context, q Query) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Any("panic", r).Msg("pipeline panicked")
			res = p.fail(ctx, q, fmt.Sprintf("internal error: %v", r), true)
		}
	}()

	if err := p.validate.Struct(q); err != nil {
		// Invalid input never reaches the scraper, so no report either.
		return p.fail(ctx, q, fmt.Sprintf("invalid search request: %v", err), false)
	}

	resume, err := os.ReadFile(p.resumePath)
	if err != nil {
		return p.fail(ctx, q, fmt.Sprintf("resume file %q is not readable", p.resumePath), true)
	}

	baseURL := "https://" + DomainFor(q.Country)
	p.log.Info().Str("title", q.JobTitle).Str("location", q.Location).Str("base", baseURL).
		Int("limit", q.JobLimit).Msg("starting job search")

	links, err := p.collect(ctx, baseURL, q)
	if err != nil {
		return p.fail(ctx, q, fmt.Sprintf("search results unavailable: %v", err), true)
	}
	if len(links) == 0 {
		return p.fail(ctx, q, "no job postings found, the board may be blocking automated access", true)
	}

	candidates := p.analyze(ctx, string(resume), links)
	metrics.AddCandidatesScored(int64(len(candidates)))
	if len(candidates) == 0 {
		return p.fail(ctx, q, "no postings could be analyzed", true)
	}

	selected, matches := Rank(candidates, q.JobLimit)
	result := &Result{
		Status:    StatusSucceeded,
		Query:     q,
		Collected: len(links),
		Selected:  selected,
		Matches:   matches,
	}

	if err := p.writeReport(ctx, result); err != nil {
		p.log.Error().Err(err).Msg("report write failed")
		return p.fail(ctx, q, fmt.Sprintf("report could not be saved: %v", err), false)
	}

	p.log.Info().Int("collected", result.Collected).Int("selected", len(selected)).
		Int("matches", matches).Msg("job search finished")
	return result
}

// fail builds a failure result, optionally persisting it as a report.
func (p *Pipeline) fail(ctx context.Context, q Query, reason string, persist bool) *Result {
	p.log.Warn().Str("reason", reason).Msg("job search failed")
	res := &Result{Status: StatusFailed, Reason: reason, Query: q}
	if persist {
		if err := p.writeReport(ctx, res); err != nil {
			p.log.Error().Err(err).Msg("failure report write failed")
		}
	}
	return res
}

func (p *Pipeline) writeReport(ctx context.Context, res *Result) error {
	r := &report.Report{
		ID:        uuid.NewString(),
		JobTitle:  res.Query.JobTitle,
		Location:  res.Query.Location,
		Collected: res.Collected,
		Matches:   res.Matches,
		CreatedAt: time.Now(),
	}
	if res.Status == StatusFailed {
		r.Failure = res.Reason
	}
	for _, c := range res.Selected {
		r.Entries = append(r.Entries, report.Entry{
			Rank:     c.Rank,
			URL:      c.URL,
			Score:    c.Score,
			Analysis: c.Analysis,
		})
	}
	if err := p.reports.WriteReport(ctx, r); err != nil {
		return err
	}
	metrics.IncReportsWritten()
	return nil
}
