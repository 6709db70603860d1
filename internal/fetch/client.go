// Package fetch retrieves pages from audited sites.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	// UserAgent identifies the auditor to target sites.
	UserAgent = "SEO-Audit-Tool/1.0 (Educational Purpose)"

	// DefaultTimeout bounds a homepage or category fetch.
	DefaultTimeout = 10 * time.Second

	// ErrTimeout is the error text recorded when a fetch runs out of time.
	ErrTimeout = "Timeout"

	maxRedirects    = 10
	maxResponseBody = 10 << 20
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// Client fetches pages and reports the outcome as a model.PageFetchResult.
type Client struct {
	client *http.Client
}

// NewClient returns a Client that follows redirects and only connects to
// public addresses.
func NewClient() *Client {
	return NewClientWithTransport(NewTransport(10))
}

// NewClientWithTransport returns a Client using the given round tripper.
func NewClientWithTransport(transport http.RoundTripper) *Client {
	return &Client{
		client: &http.Client{
			Transport:     transport,
			CheckRedirect: redirectPolicy,
		},
	}
}

func redirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch issues a GET for targetURL. It never returns an error: failures are
// recorded in the result, and running out of time is reported as "Timeout".
// Non-2xx responses are successful fetches carrying their status code.
func (c *Client) Fetch(ctx context.Context, targetURL string, timeout time.Duration) model.PageFetchResult {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return model.PageFetchResult{Error: err.Error()}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return failure(err)
	}
	defer func() { _ = resp.Body.Close() }()
	elapsed := time.Since(start)

	body, err := readBody(resp)
	if err != nil {
		return failure(err)
	}

	return model.PageFetchResult{
		Success:        true,
		StatusCode:     resp.StatusCode,
		Content:        body,
		Headers:        flattenHeaders(resp.Header),
		FinalURL:       resp.Request.URL.String(),
		ElapsedSeconds: elapsed.Seconds(),
	}
}

// readBody reads at most 10 MB and converts it to UTF-8 using the declared
// or sniffed charset.
func readBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, maxResponseBody)

	r, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		r = limited
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func failure(err error) model.PageFetchResult {
	if isTimeout(err) {
		return model.PageFetchResult{Error: ErrTimeout}
	}
	return model.PageFetchResult{Error: err.Error()}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
