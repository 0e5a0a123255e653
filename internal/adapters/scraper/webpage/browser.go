// Package webpage implements the headhunter.Browser port over plain HTTP
// and an HTML parser with a small CSS-subset selector engine.
package webpage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/headhunter"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/infrastructure/metrics"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Options configures a Browser.
type Options struct {
	// SettleDelay is the pause after the first page load, giving rate
	// limiters room. Zero disables it.
	SettleDelay time.Duration
	// FetchDelay is the politeness pause before every subsequent request.
	FetchDelay time.Duration
	// UserAgent overrides the default desktop user agent string.
	UserAgent string
	// Timeout bounds a single request. Zero means 30s.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Browser is an HTTP-backed headhunter.Browser. One Browser is one browsing
// session: cookies persist across Navigate calls.
type Browser struct {
	client    *http.Client
	userAgent string
	settle    time.Duration
	delay     time.Duration
	log       zerolog.Logger

	fetched bool
}

// New creates a browsing session.
func New(opts Options) (*Browser, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Browser{
		client:    &http.Client{Jar: jar, Timeout: timeout},
		userAgent: ua,
		settle:    opts.SettleDelay,
		delay:     opts.FetchDelay,
		log:       opts.Logger,
	}, nil
}

// Navigate fetches and parses a page.
func (b *Browser) Navigate(ctx context.Context, url string) (headhunter.Page, error) {
	if b.fetched && b.delay > 0 {
		if err := sleep(ctx, b.delay); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	metrics.IncPagesScraped()
	b.log.Debug().Str("url", url).Msg("page fetched")

	if !b.fetched {
		b.fetched = true
		if b.settle > 0 {
			if err := sleep(ctx, b.settle); err != nil {
				return nil, err
			}
		}
	}
	return &document{root: root}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
