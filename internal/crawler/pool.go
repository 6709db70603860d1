package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// FetchSelectedPages fetches urls through a bounded worker pool, each with
// its own timeout. A failed page yields an unsuccessful outcome and does not
// affect its siblings. Outcomes arrive in completion order.
//
// Once the crawler's total budget elapses, pages still in flight are
// abandoned and the outcomes gathered so far are returned.
func (c *Crawler) FetchSelectedPages(ctx context.Context, urls []string, perPageTimeout time.Duration) []model.PageFetchOutcome {
	if len(urls) == 0 {
		return []model.PageFetchOutcome{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string, len(urls))
	results := make(chan model.PageFetchOutcome, len(urls))

	numWorkers := min(len(urls), c.concurrency)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for u := range jobs {
				results <- c.fetchPage(ctx, u, perPageTimeout)
			}
		})
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	budget := time.NewTimer(c.budget)
	defer budget.Stop()

	outcomes := make([]model.PageFetchOutcome, 0, len(urls))
	for {
		select {
		case o, ok := <-results:
			if !ok {
				return outcomes
			}
			outcomes = append(outcomes, o)
		case <-budget.C:
			c.logger.Warn("page fetch budget exhausted",
				"completed", len(outcomes),
				"requested", len(urls),
				"budget", c.budget.String(),
			)
			return outcomes
		case <-ctx.Done():
			return outcomes
		}
	}
}

func (c *Crawler) fetchPage(ctx context.Context, pageURL string, timeout time.Duration) model.PageFetchOutcome {
	res := c.fetcher.Fetch(ctx, pageURL, timeout)
	if !res.Success {
		return model.PageFetchOutcome{URL: pageURL, Error: res.Error}
	}
	if res.StatusCode >= 400 {
		return model.PageFetchOutcome{
			URL:        pageURL,
			StatusCode: res.StatusCode,
			Error:      fmt.Sprintf("HTTP %d", res.StatusCode),
		}
	}
	return model.PageFetchOutcome{
		URL:        pageURL,
		Success:    true,
		HTML:       res.Content,
		StatusCode: res.StatusCode,
	}
}
