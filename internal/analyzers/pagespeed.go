package analyzers

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	// DefaultPageSpeedEndpoint is the PageSpeed Insights v5 API.
	DefaultPageSpeedEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

	defaultPSITimeout = 30 * time.Second
	defaultCacheSize  = 256
	defaultCacheTTL   = 15 * time.Minute
	maxPSIResponse    = 20 << 20
	maxOpportunities  = 5
	psiStrategy       = "mobile"
)

var errPageSpeedForbidden = errors.New("PageSpeed API returned 403: check that the API key allows the PageSpeed Insights API")

// Metric is one Lighthouse measurement.
type Metric struct {
	Value        float64 `json:"value"`
	DisplayValue string  `json:"display_value"`
}

// CoreWebVitals holds the mobile Core Web Vitals. FID is approximated by
// Lighthouse's max potential FID.
type CoreWebVitals struct {
	LCP Metric `json:"lcp"`
	FID Metric `json:"fid"`
	CLS Metric `json:"cls"`
}

// Opportunity is a Lighthouse suggestion with estimated savings.
type Opportunity struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Savings     float64 `json:"savings"`
}

// PageSpeedMetrics is the parsed part of a PageSpeed Insights run.
type PageSpeedMetrics struct {
	PerformanceScore int           `json:"performance_score"`
	CoreWebVitals    CoreWebVitals `json:"core_web_vitals"`
	Opportunities    []Opportunity `json:"opportunities,omitempty"`
}

// PageSpeed queries PageSpeed Insights and turns the mobile result into a
// category. Results are cached per URL.
type PageSpeed struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	timeout    time.Duration
	cache      *expirable.LRU[string, PageSpeedMetrics]
	logger     *slog.Logger
}

// PageSpeedOption configures a PageSpeed analyzer.
type PageSpeedOption func(*PageSpeed)

// WithPageSpeedEndpoint overrides the API URL.
func WithPageSpeedEndpoint(endpoint string) PageSpeedOption {
	return func(p *PageSpeed) { p.endpoint = endpoint }
}

// WithPageSpeedHTTPClient sets the HTTP client.
func WithPageSpeedHTTPClient(c *http.Client) PageSpeedOption {
	return func(p *PageSpeed) { p.httpClient = c }
}

// WithPageSpeedTimeout bounds a single API call.
func WithPageSpeedTimeout(d time.Duration) PageSpeedOption {
	return func(p *PageSpeed) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPageSpeedCache sizes the result cache. A size of zero disables caching.
func WithPageSpeedCache(size int, ttl time.Duration) PageSpeedOption {
	return func(p *PageSpeed) {
		if size <= 0 {
			p.cache = nil
			return
		}
		p.cache = expirable.NewLRU[string, PageSpeedMetrics](size, nil, ttl)
	}
}

// WithPageSpeedLogger sets the logger.
func WithPageSpeedLogger(logger *slog.Logger) PageSpeedOption {
	return func(p *PageSpeed) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPageSpeed returns a PageSpeed analyzer using apiKey unless a request
// supplies its own.
func NewPageSpeed(apiKey string, opts ...PageSpeedOption) *PageSpeed {
	p := &PageSpeed{
		httpClient: &http.Client{},
		endpoint:   DefaultPageSpeedEndpoint,
		apiKey:     apiKey,
		timeout:    defaultPSITimeout,
		cache:      expirable.NewLRU[string, PageSpeedMetrics](defaultCacheSize, nil, defaultCacheTTL),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Category implements Analyzer.
func (*PageSpeed) Category() string { return model.CategoryPageSpeed }

// Analyze implements Analyzer.
func (p *PageSpeed) Analyze(ctx context.Context, page *Page) (model.CategoryResult, error) {
	key := page.Credentials.PageSpeedAPIKey
	if key == "" {
		key = p.apiKey
	}

	metrics, err := p.Metrics(ctx, page.URL, key)
	if err != nil {
		return model.CategoryResult{}, err
	}
	return pageSpeedResult(metrics), nil
}

// Metrics returns the mobile PageSpeed metrics for pageURL, from cache when
// possible.
func (p *PageSpeed) Metrics(ctx context.Context, pageURL, apiKey string) (PageSpeedMetrics, error) {
	cacheKey := psiStrategy + "|" + pageURL
	if p.cache != nil {
		if m, ok := p.cache.Get(cacheKey); ok {
			p.logger.DebugContext(ctx, "pagespeed cache hit", "url", pageURL)
			return m, nil
		}
	}

	m, err := p.fetch(ctx, pageURL, apiKey)
	if err != nil {
		return PageSpeedMetrics{}, err
	}
	if p.cache != nil {
		p.cache.Add(cacheKey, m)
	}
	return m, nil
}

type psiResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]psiAudit `json:"audits"`
	} `json:"lighthouseResult"`
}

type psiAudit struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	NumericValue float64 `json:"numericValue"`
	DisplayValue string  `json:"displayValue"`
	Details      struct {
		Type string `json:"type"`
	} `json:"details"`
}

func (p *PageSpeed) fetch(ctx context.Context, pageURL, apiKey string) (PageSpeedMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("strategy", psiStrategy)
	q.Set("category", "performance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return PageSpeedMetrics{}, fmt.Errorf("create pagespeed request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-Goog-Api-Key", apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// The request URL ends up in category errors, so only the cause is kept.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return PageSpeedMetrics{}, fmt.Errorf("pagespeed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return PageSpeedMetrics{}, errPageSpeedForbidden
	}
	if resp.StatusCode != http.StatusOK {
		return PageSpeedMetrics{}, fmt.Errorf("pagespeed API returned %d", resp.StatusCode)
	}

	var parsed psiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPSIResponse)).Decode(&parsed); err != nil {
		return PageSpeedMetrics{}, fmt.Errorf("decode pagespeed response: %w", err)
	}
	return parsePSI(parsed), nil
}

func parsePSI(r psiResponse) PageSpeedMetrics {
	lh := r.LighthouseResult
	var m PageSpeedMetrics
	if s := lh.Categories.Performance.Score; s != nil {
		m.PerformanceScore = int(*s * 100)
	}

	metric := func(name string) Metric {
		a, ok := lh.Audits[name]
		if !ok {
			return Metric{DisplayValue: "N/A"}
		}
		return Metric{Value: a.NumericValue, DisplayValue: a.DisplayValue}
	}
	m.CoreWebVitals = CoreWebVitals{
		LCP: metric("largest-contentful-paint"),
		FID: metric("max-potential-fid"),
		CLS: metric("cumulative-layout-shift"),
	}

	for _, a := range lh.Audits {
		if a.Details.Type == "opportunity" {
			m.Opportunities = append(m.Opportunities, Opportunity{Title: a.Title, Description: a.Description, Savings: a.NumericValue})
		}
	}
	sortOpportunities(m.Opportunities)
	m.Opportunities = m.Opportunities[:min(len(m.Opportunities), maxOpportunities)]
	return m
}

func pageSpeedResult(m PageSpeedMetrics) model.CategoryResult {
	c := newChecklist()
	perf := m.PerformanceScore
	c.check("mobile_performance", fmt.Sprintf("%d/100", perf), perf >= 50, float64(perf))

	cwv := m.CoreWebVitals
	c.check("lcp", cwv.LCP.DisplayValue, cwv.LCP.Value <= 2500, vitalScore(cwv.LCP.Value, 2500, 4000))
	c.check("fid", cwv.FID.DisplayValue, cwv.FID.Value <= 100, vitalScore(cwv.FID.Value, 100, 300))
	c.check("cls", cwv.CLS.DisplayValue, cwv.CLS.Value <= 0.1, vitalScore(cwv.CLS.Value, 0.1, 0.25))

	if lcp := cwv.LCP.Value; lcp > 2500 {
		sev, impact := model.SeverityImportant, 7
		if lcp > 4000 {
			sev, impact = model.SeverityCritical, 9
		}
		c.issue(sev, impact,
			fmt.Sprintf("Slow LCP: %.1fs (mobile)", lcp/1000),
			"Largest Contentful Paint should be under 2.5s.",
			"Optimize images, use a CDN and minify CSS and JS.")
	}
	if cls := cwv.CLS.Value; cls > 0.1 {
		sev, impact := model.SeverityRecommendation, 5
		if cls > 0.25 {
			sev, impact = model.SeverityImportant, 7
		}
		c.issue(sev, impact,
			fmt.Sprintf("Layout shift problems: CLS %.3f (mobile)", cls),
			"Cumulative Layout Shift should be under 0.1.",
			"Set image dimensions and reserve space for ads and embeds.")
	}
	if fid := cwv.FID.Value; fid > 100 {
		c.issue(model.SeverityImportant, 6,
			fmt.Sprintf("Slow interactivity: %.0fms (mobile)", fid),
			"First Input Delay should be under 100ms.",
			"Reduce JavaScript, split bundles and defer scripts.")
	}

	result := c.done()
	result.Score = float64(perf)
	result.Details = map[string]any{
		"core_web_vitals": cwv,
		"opportunities":   m.Opportunities,
	}
	return result
}

// vitalScore maps a Core Web Vital to 100 (good), 50 (needs improvement) or
// 0 (poor).
func vitalScore(v, good, poor float64) float64 {
	switch {
	case v <= good:
		return 100
	case v <= poor:
		return 50
	default:
		return 0
	}
}

func sortOpportunities(ops []Opportunity) {
	slices.SortStableFunc(ops, func(a, b Opportunity) int {
		if c := cmp.Compare(b.Savings, a.Savings); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
}
