package analyzers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/maciusman/seo-aiditor/internal/model"
)

var securityHeaders = []struct {
	header string
	label  string
}{
	{"Strict-Transport-Security", "HSTS"},
	{"X-Content-Type-Options", "X-Content-Type-Options"},
	{"X-Frame-Options", "X-Frame-Options"},
	{"Content-Security-Policy", "CSP"},
}

// Technical checks the HTTP status, TLS, server response time and security
// headers of the homepage response.
type Technical struct{}

// Category implements Analyzer.
func (Technical) Category() string { return model.CategoryTechnical }

// Analyze implements Analyzer.
func (Technical) Analyze(_ context.Context, page *Page) (model.CategoryResult, error) {
	c := newChecklist()
	fetch := page.Fetch

	if !fetch.Success {
		c.check("http_status", "unreachable", false, 0)
		c.issue(model.SeverityCritical, 10, "Page unreachable", fetch.Error, "")
		return c.done(), nil
	}

	status := fetch.StatusCode
	c.check("http_status", fmt.Sprintf("%d", status), status == http.StatusOK, scoreIf(status == http.StatusOK, 100, 0))
	if status != http.StatusOK {
		c.issue(model.SeverityCritical, 10,
			fmt.Sprintf("HTTP status: %d", status),
			"The page is not available or returns an error.",
			"Make sure the URL returns 200 OK.")
	}

	https := strings.HasPrefix(strings.ToLower(page.URL), "https://")
	c.check("ssl", fmt.Sprintf("%t", https), https, scoreIf(https, 100, 0))
	if !https {
		c.issue(model.SeverityCritical, 10,
			"No SSL certificate",
			"The page is not served over HTTPS, which hurts both rankings and security.",
			"Install a TLS certificate (Let's Encrypt is free) and redirect HTTP to HTTPS.")
	}

	ttfb := fetch.ElapsedSeconds * 1000
	var ttfbScore float64
	switch {
	case ttfb < 600:
		ttfbScore = 100
	case ttfb < 1200:
		ttfbScore = 50
	}
	c.check("ttfb", fmt.Sprintf("%.0fms", ttfb), ttfb < 600, ttfbScore)
	if ttfb > 1200 {
		c.issue(model.SeverityImportant, 7,
			fmt.Sprintf("Slow server response: %.0fms", ttfb),
			"Time to first byte should be under 600ms.",
			"Optimize the server, add a CDN and enable caching.")
	}

	var missing []string
	for _, h := range securityHeaders {
		if fetch.Header(h.header) == "" {
			missing = append(missing, h.label)
		}
	}
	present := len(securityHeaders) - len(missing)
	c.check("security_headers",
		fmt.Sprintf("%d/%d", present, len(securityHeaders)),
		len(missing) == 0,
		float64(present*100/len(securityHeaders)))
	if len(missing) > 0 {
		c.issue(model.SeverityRecommendation, 4,
			fmt.Sprintf("%d security headers missing", len(missing)),
			"Missing: "+strings.Join(missing, ", "),
			"Add the security headers in the web server configuration.")
	}

	return c.done(), nil
}

func scoreIf(ok bool, pass, fail float64) float64 {
	if ok {
		return pass
	}
	return fail
}
