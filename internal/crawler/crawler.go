// Package crawler discovers same-site links from a homepage and fetches the
// pages chosen for multi-page analysis.
package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	// MaxLinks caps how many homepage links are handed to the classifier.
	MaxLinks = 100

	// DefaultConcurrency is the worker pool size for selected page fetches.
	DefaultConcurrency = 5

	defaultTimeout     = 10 * time.Second
	defaultTotalBudget = 60 * time.Second

	// minHomepageLinks is the link count below which the sitemap is consulted.
	minHomepageLinks = 10
	maxSitemapURLs   = 50
)

// pageFetcher is the page retrieval the crawler needs.
type pageFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) model.PageFetchResult
}

// Config tunes a Crawler. Zero values select defaults.
type Config struct {
	// Timeout bounds the homepage and sitemap requests.
	Timeout time.Duration
	// Concurrency is the number of parallel selected-page fetches.
	Concurrency int
	// TotalBudget is how long FetchSelectedPages waits before abandoning
	// stragglers.
	TotalBudget time.Duration
}

// Crawler implements the site crawler stage of a multi-page audit.
type Crawler struct {
	fetcher     pageFetcher
	transport   http.RoundTripper
	timeout     time.Duration
	concurrency int
	budget      time.Duration
	logger      *slog.Logger
}

// New returns a Crawler. transport is used by the homepage collector; fetcher
// is used for selected pages.
func New(fetcher pageFetcher, transport http.RoundTripper, cfg Config, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Crawler{
		fetcher:     fetcher,
		transport:   transport,
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
		budget:      cfg.TotalBudget,
		logger:      logger,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.concurrency <= 0 {
		c.concurrency = DefaultConcurrency
	}
	if c.budget <= 0 {
		c.budget = defaultTotalBudget
	}
	return c
}
