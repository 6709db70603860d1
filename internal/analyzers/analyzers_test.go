package analyzers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maciusman/seo-aiditor/internal/model"
)

type stubFetcher struct {
	pages map[string]model.PageFetchResult
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string, _ time.Duration) model.PageFetchResult {
	s.calls = append(s.calls, url)
	if res, ok := s.pages[url]; ok {
		return res
	}
	return model.PageFetchResult{Success: true, StatusCode: 404}
}

func htmlPage(url, body string) *Page {
	return NewPage(url, model.PageFetchResult{Success: true, StatusCode: 200, Content: body}, "en", Credentials{})
}

func issueTitles(r model.CategoryResult) []string {
	titles := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		titles[i] = issue.Title
	}
	return titles
}

func TestTechnical(t *testing.T) {
	t.Run("healthy https response", func(t *testing.T) {
		page := NewPage("https://site.test", model.PageFetchResult{
			Success:        true,
			StatusCode:     200,
			ElapsedSeconds: 0.3,
			Headers: map[string]string{
				"Strict-Transport-Security": "max-age=31536000",
				"X-Content-Type-Options":    "nosniff",
				"X-Frame-Options":           "DENY",
				"content-security-policy":   "default-src 'self'",
			},
		}, "en", Credentials{})

		got, err := Technical{}.Analyze(context.Background(), page)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Score)
		assert.Empty(t, got.Issues)
		assert.Equal(t, "300ms", got.Checks["ttfb"].Value)
		assert.Equal(t, "4/4", got.Checks["security_headers"].Value)
	})

	t.Run("plain http, slow, no headers", func(t *testing.T) {
		page := NewPage("http://site.test", model.PageFetchResult{
			Success:        true,
			StatusCode:     200,
			ElapsedSeconds: 1.5,
		}, "en", Credentials{})

		got, err := Technical{}.Analyze(context.Background(), page)
		require.NoError(t, err)
		assert.Equal(t, 25.0, got.Score)
		require.Len(t, got.Issues, 3)
		assert.Equal(t, model.SeverityCritical, got.Issues[0].Severity)
		assert.Equal(t, 7, got.Issues[1].Impact)
		assert.Equal(t, model.SeverityRecommendation, got.Issues[2].Severity)
	})

	t.Run("non-200 status", func(t *testing.T) {
		page := NewPage("https://site.test", model.PageFetchResult{Success: true, StatusCode: 503, ElapsedSeconds: 0.1}, "en", Credentials{})

		got, err := Technical{}.Analyze(context.Background(), page)
		require.NoError(t, err)
		assert.False(t, got.Checks["http_status"].Pass)
		assert.Contains(t, issueTitles(got), "HTTP status: 503")
	})
}

func TestOnPage_Optimal(t *testing.T) {
	var links strings.Builder
	for i := range 12 {
		fmt.Fprintf(&links, `<a href="/page-%d">Page %d</a>`, i, i)
	}
	body := fmt.Sprintf(`<html><head>
		<title>%s</title>
		<meta name="description" content="%s">
		<meta property="og:title" content="t"><meta property="og:description" content="d">
		<meta property="og:image" content="i"><meta property="og:type" content="website">
		</head><body><h1>Main</h1><h2>Sub</h2>
		<img src="a.png" alt="A"><img src="b.png" alt="B">
		%s<a href="https://other.test/">Partner</a></body></html>`,
		strings.Repeat("t", 55), strings.Repeat("d", 155), links.String())

	got, err := OnPage{}.Analyze(context.Background(), htmlPage("https://site.test/", body))
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Score)
	assert.Empty(t, got.Issues)
	assert.Equal(t, "internal: 12, external: 1", got.Checks["links"].Value)
	assert.Equal(t, "Main", got.Checks["h1"].Extra["text"])
}

func TestOnPage_EmptyPage(t *testing.T) {
	got, err := OnPage{}.Analyze(context.Background(), htmlPage("https://site.test/", "<html><body></body></html>"))
	require.NoError(t, err)

	assert.InDelta(t, 240.0/7, got.Score, 0.001)
	assert.Equal(t, []string{
		"Missing title tag",
		"Missing meta description",
		"Missing H1 heading",
		"Incomplete Open Graph tags",
		"Few internal links",
	}, issueTitles(got))
}

func TestOnPage_Rules(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		check      string
		wantScore  float64
		wantIssue  string
		wantImpact int
	}{
		{
			name:       "title slightly long",
			body:       "<title>" + strings.Repeat("x", 65) + "</title>",
			check:      "title",
			wantScore:  70,
			wantIssue:  "Title tag outside optimal length",
			wantImpact: 7,
		},
		{
			name:       "title far too short",
			body:       "<title>Home</title>",
			check:      "title",
			wantScore:  30,
			wantIssue:  "Title tag far too short or long",
			wantImpact: 9,
		},
		{
			name:       "short meta description",
			body:       `<meta name="description" content="Too short">`,
			check:      "meta_description",
			wantScore:  50,
			wantIssue:  "Meta description outside optimal length",
			wantImpact: 6,
		},
		{
			name:       "several H1",
			body:       "<h1>a</h1><h1>b</h1>",
			check:      "h1",
			wantScore:  50,
			wantIssue:  "More than one H1 (2)",
			wantImpact: 6,
		},
		{
			name:       "most images lack alt",
			body:       `<img src="1"><img src="2"><img src="3"><img src="4" alt="ok">`,
			check:      "images_alt",
			wantScore:  25,
			wantIssue:  "3 images without alt text",
			wantImpact: 8,
		},
		{
			name:       "a few images lack alt",
			body:       strings.Repeat(`<img src="x" alt="ok">`, 8) + `<img src="y"><img src="z" alt=" ">`,
			check:      "images_alt",
			wantScore:  80,
			wantIssue:  "2 images without alt text",
			wantImpact: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OnPage{}.Analyze(context.Background(), htmlPage("https://site.test/", "<html><head></head><body>"+tt.body+"</body></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, got.Checks[tt.check].Score)

			var found *model.Issue
			for i := range got.Issues {
				if got.Issues[i].Title == tt.wantIssue {
					found = &got.Issues[i]
				}
			}
			require.NotNil(t, found, "issues: %v", issueTitles(got))
			assert.Equal(t, tt.wantImpact, found.Impact)
		})
	}
}

func TestIsInternalLink(t *testing.T) {
	base, err := url.Parse("https://site.test/blog/")
	require.NoError(t, err)
	tests := []struct {
		href string
		want bool
	}{
		{"/about", true},
		{"post-1", true},
		{"#top", true},
		{"https://SITE.test/pricing", true},
		{"https://other.test/", false},
		{"mailto:hi@site.test", false},
		{"javascript:void(0)", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isInternalLink(base, tt.href), tt.href)
	}
}

const validSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://site.test/</loc></url>
  <url><loc>https://site.test/about</loc></url>
  <url><loc>https://site.test/blog</loc></url>
</urlset>`

func TestIndexing_Healthy(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]model.PageFetchResult{
		"https://site.test/robots.txt":  {Success: true, StatusCode: 200, Content: "User-agent: *\nDisallow: /admin\nSitemap: https://site.test/sitemap.xml\n"},
		"https://site.test/sitemap.xml": {Success: true, StatusCode: 200, Content: validSitemap},
	}}
	body := `<html><head><link rel="canonical" href="https://site.test/">
		<script type="application/ld+json">{"@type": "Organization"}</script></head><body></body></html>`

	got, err := NewIndexing(fetcher).Analyze(context.Background(), htmlPage("https://site.test/blog/post?x=1", body))
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Score)
	assert.Empty(t, got.Issues)
	assert.Equal(t, "present (3 URLs)", got.Checks["sitemap"].Value)
	assert.Equal(t, "https://site.test/", got.Checks["canonical"].Extra["url"])
	assert.Equal(t, []string{"https://site.test/robots.txt", "https://site.test/sitemap.xml"}, fetcher.calls)
}

func TestIndexing_Blocked(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]model.PageFetchResult{
		"https://site.test/robots.txt": {Success: true, StatusCode: 200, Content: "User-agent: *\nDisallow: /\n"},
	}}
	body := `<html><head><meta name="robots" content="NOINDEX, follow"></head><body></body></html>`

	got, err := NewIndexing(fetcher).Analyze(context.Background(), htmlPage("https://site.test/", body))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"robots.txt blocks the whole site",
		"robots.txt does not reference a sitemap",
		"Missing sitemap.xml",
		"Missing canonical tag",
		"Page is marked noindex",
		"Missing schema markup",
	}, issueTitles(got))
	assert.Equal(t, 0.0, got.Checks["meta_robots"].Score)
	assert.Equal(t, "noindex, follow", got.Checks["meta_robots"].Value)
}

func TestIndexing_SideResources(t *testing.T) {
	tests := []struct {
		name       string
		robots     model.PageFetchResult
		sitemap    model.PageFetchResult
		wantRobots float64
		wantSite   float64
		wantIssue  string
	}{
		{
			name:       "missing robots, invalid sitemap",
			robots:     model.PageFetchResult{Success: true, StatusCode: 404},
			sitemap:    model.PageFetchResult{Success: true, StatusCode: 200, Content: "<urlset><url><loc>https://site.test/</loc>"},
			wantRobots: 80,
			wantSite:   50,
			wantIssue:  "Invalid sitemap",
		},
		{
			name:       "unreachable side resources",
			robots:     model.PageFetchResult{Error: "Timeout"},
			sitemap:    model.PageFetchResult{Error: "Timeout"},
			wantRobots: 50,
			wantSite:   0,
			wantIssue:  "Missing canonical tag",
		},
		{
			name:       "robots without sitemap line",
			robots:     model.PageFetchResult{Success: true, StatusCode: 200, Content: "User-agent: *\nAllow: /\n"},
			sitemap:    model.PageFetchResult{Success: true, StatusCode: 200, Content: validSitemap},
			wantRobots: 70,
			wantSite:   100,
			wantIssue:  "robots.txt does not reference a sitemap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{pages: map[string]model.PageFetchResult{
				"https://site.test/robots.txt":  tt.robots,
				"https://site.test/sitemap.xml": tt.sitemap,
			}}

			got, err := NewIndexing(fetcher).Analyze(context.Background(), htmlPage("https://site.test/", "<html></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRobots, got.Checks["robots_txt"].Score)
			assert.Equal(t, tt.wantSite, got.Checks["sitemap"].Score)
			assert.Contains(t, issueTitles(got), tt.wantIssue)
		})
	}
}

func TestCountSitemapURLs(t *testing.T) {
	n, err := countSitemapURLs(validSitemap)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = countSitemapURLs("")
	assert.Error(t, err)
}
