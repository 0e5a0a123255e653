package headhunter

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// minDescriptionLen filters out interstitial and block pages that carry no
// real posting text.
const minDescriptionLen = 100

// analyze fetches each posting's description and scores it against the
// resume. Fetches run sequentially on the shared browser session; scoring
// runs concurrently with results assembled by index, so candidate order is
// deterministic. Per-candidate failures are logged and skipped.
func (p *Pipeline) analyze(ctx context.Context, resume string, links []string) []Candidate {
	descriptions := make([]string, len(links))
	for i, link := range links {
		page, err := p.browser.Navigate(ctx, link)
		if err != nil {
			p.log.Warn().Err(err).Str("url", link).Msg("posting fetch failed, skipping")
			continue
		}
		desc := p.description(page)
		if len(desc) < minDescriptionLen {
			p.log.Warn().Str("url", link).Int("len", len(desc)).Msg("description too short, skipping")
			continue
		}
		descriptions[i] = desc
	}

	results := make([]*Candidate, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range links {
		if descriptions[i] == "" {
			continue
		}
		i := i
		g.Go(func() error {
			analysis, err := p.scorer.ScoreCandidate(gctx, resume, descriptions[i])
			if err != nil {
				p.log.Warn().Err(err).Str("url", links[i]).Msg("scoring failed, skipping")
				return nil
			}
			results[i] = &Candidate{
				URL:      links[i],
				Score:    ExtractScore(analysis),
				Analysis: analysis,
			}
			return nil
		})
	}
	// Workers swallow their own errors; Wait only orders the joins.
	_ = g.Wait()

	var out []Candidate
	for _, c := range results {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// description extracts the posting text, preferring the dedicated container
// and falling back to the whole page body.
func (p *Pipeline) description(page Page) string {
	for _, loc := range descriptionLocators {
		if el, ok := page.First(loc.Selector); ok {
			if text := strings.TrimSpace(el.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}
