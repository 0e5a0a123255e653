package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// searchURL builds the first results page URL for a query.
func searchURL(baseURL string, q Query) string {
	params := url.Values{}
	params.Set("q", q.JobTitle)
	params.Set("l", q.Location)
	return fmt.Sprintf("%s/jobs?%s", baseURL, params.Encode())
}

// canonicalLink normalizes a posting href to a stable URL. Links carrying a
// jk= posting ID collapse to {base}/viewjob?jk={id} so the same posting
// reached through different page variants dedups to one link. Plain
// /viewjob links resolve against the base; anything else is rejected.
func canonicalLink(baseURL, href string) (string, bool) {
	if href == "" {
		return "", false
	}
	if idx := strings.Index(href, "jk="); idx >= 0 {
		id := href[idx+len("jk="):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		if id == "" {
			return "", false
		}
		return fmt.Sprintf("%s/viewjob?jk=%s", baseURL, id), true
	}
	if strings.Contains(href, "/viewjob") {
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			return href, true
		}
		return baseURL + "/" + strings.TrimPrefix(href, "/"), true
	}
	return "", false
}

// collect walks up to MaxPages of search results and returns deduplicated
// posting links in first-seen order, capped at twice the job limit.
func (p *Pipeline) collect(ctx context.Context, baseURL string, q Query) ([]string, error) {
	maxLinks := q.JobLimit * 2
	seen := make(map[string]struct{})
	var links []string

	pageURL := searchURL(baseURL, q)
	for pageNum := 0; pageNum < MaxPages; pageNum++ {
		page, err := p.browser.Navigate(ctx, pageURL)
		if err != nil {
			if pageNum == 0 {
				return nil, fmt.Errorf("loading search results: %w", err)
			}
			p.log.Warn().Err(err).Str("url", pageURL).Msg("results page failed, stopping pagination")
			break
		}

		added := 0
		for _, href := range p.pageLinks(page) {
			link, ok := canonicalLink(baseURL, href)
			if !ok {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
			added++
		}
		p.log.Debug().Int("page", pageNum+1).Int("new_links", added).Msg("results page collected")

		if added == 0 || len(links) >= maxLinks {
			break
		}
		next, ok := p.nextPageURL(baseURL, page)
		if !ok {
			break
		}
		pageURL = next
	}

	if len(links) > maxLinks {
		links = links[:maxLinks]
	}
	return links, nil
}

// pageLinks extracts candidate hrefs from a results page, trying each
// locator until one matches.
func (p *Pipeline) pageLinks(page Page) []string {
	for _, loc := range jobLinkLocators {
		elems := page.Select(loc.Selector)
		if len(elems) == 0 {
			continue
		}
		var hrefs []string
		for _, el := range elems {
			if href, ok := el.Attr("href"); ok {
				hrefs = append(hrefs, href)
			}
		}
		if len(hrefs) > 0 {
			p.log.Debug().Str("locator", loc.Name).Int("count", len(hrefs)).Msg("job links located")
			return hrefs
		}
	}
	return nil
}

// nextPageURL finds the pagination control and resolves its target.
func (p *Pipeline) nextPageURL(baseURL string, page Page) (string, bool) {
	for _, loc := range nextPageLocators {
		el, ok := page.First(loc.Selector)
		if !ok {
			continue
		}
		href, ok := el.Attr("href")
		if !ok || href == "" {
			continue
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			return href, true
		}
		return baseURL + "/" + strings.TrimPrefix(href, "/"), true
	}
	return "", false
}
