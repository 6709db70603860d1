package crawler

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// mockFetcher serves canned results and records peak concurrency.
type mockFetcher struct {
	results map[string]model.PageFetchResult
	delay   map[string]time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	calls    atomic.Int32
}

func (m *mockFetcher) Fetch(ctx context.Context, url string, _ time.Duration) model.PageFetchResult {
	m.calls.Add(1)
	m.mu.Lock()
	m.inFlight++
	m.peak = max(m.peak, m.inFlight)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if d := m.delay[url]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return model.PageFetchResult{Error: "Timeout"}
		}
	} else {
		time.Sleep(5 * time.Millisecond)
	}

	if r, ok := m.results[url]; ok {
		return r
	}
	return model.PageFetchResult{Success: true, StatusCode: 200, Content: "<html>" + url + "</html>"}
}

func outcomeURLs(outcomes []model.PageFetchOutcome, success bool) []string {
	var urls []string
	for _, o := range outcomes {
		if o.Success == success {
			urls = append(urls, o.URL)
		}
	}
	sort.Strings(urls)
	return urls
}

func TestFetchSelectedPages_IsolatesFailures(t *testing.T) {
	fetcher := &mockFetcher{
		results: map[string]model.PageFetchResult{
			"https://example.com/down":    {Error: "connection refused"},
			"https://example.com/missing": {Success: true, StatusCode: 404},
		},
	}
	c := New(fetcher, nil, Config{Concurrency: 2}, nil)

	outcomes := c.FetchSelectedPages(context.Background(), []string{
		"https://example.com/a",
		"https://example.com/down",
		"https://example.com/b",
		"https://example.com/missing",
	}, time.Second)

	if len(outcomes) != 4 {
		t.Fatalf("len(outcomes) = %d, want 4", len(outcomes))
	}
	ok := outcomeURLs(outcomes, true)
	if len(ok) != 2 || ok[0] != "https://example.com/a" || ok[1] != "https://example.com/b" {
		t.Errorf("successful = %q", ok)
	}
	for _, o := range outcomes {
		switch o.URL {
		case "https://example.com/down":
			if o.Error != "connection refused" {
				t.Errorf("down error = %q", o.Error)
			}
		case "https://example.com/missing":
			if o.Error != "HTTP 404" || o.StatusCode != 404 {
				t.Errorf("missing outcome = %+v", o)
			}
		default:
			if o.HTML == "" {
				t.Errorf("%s has no HTML", o.URL)
			}
		}
	}
}

func TestFetchSelectedPages_BoundedConcurrency(t *testing.T) {
	fetcher := &mockFetcher{}
	c := New(fetcher, nil, Config{Concurrency: 3}, nil)

	urls := make([]string, 12)
	for i := range urls {
		urls[i] = "https://example.com/p" + string(rune('a'+i))
	}

	outcomes := c.FetchSelectedPages(context.Background(), urls, time.Second)

	if len(outcomes) != len(urls) {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), len(urls))
	}
	if fetcher.peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", fetcher.peak)
	}
	if int(fetcher.calls.Load()) != len(urls) {
		t.Errorf("calls = %d, want %d", fetcher.calls.Load(), len(urls))
	}
}

func TestFetchSelectedPages_AbandonsStragglers(t *testing.T) {
	fetcher := &mockFetcher{
		delay: map[string]time.Duration{"https://example.com/slow": 5 * time.Second},
	}
	c := New(fetcher, nil, Config{Concurrency: 2, TotalBudget: 200 * time.Millisecond}, nil)

	start := time.Now()
	outcomes := c.FetchSelectedPages(context.Background(), []string{
		"https://example.com/fast",
		"https://example.com/slow",
	}, 10*time.Second)

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("FetchSelectedPages took %v, budget was not enforced", elapsed)
	}
	if len(outcomes) != 1 || outcomes[0].URL != "https://example.com/fast" {
		t.Errorf("outcomes = %+v, want only the fast page", outcomes)
	}
}

func TestFetchSelectedPages_Empty(t *testing.T) {
	c := New(&mockFetcher{}, nil, Config{}, nil)

	outcomes := c.FetchSelectedPages(context.Background(), nil, time.Second)

	if outcomes == nil || len(outcomes) != 0 {
		t.Errorf("outcomes = %#v, want empty non-nil slice", outcomes)
	}
}
