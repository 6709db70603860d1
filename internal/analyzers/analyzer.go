// Package analyzers implements the category analyzers of an audit. Each one
// inspects the fetched homepage and returns a scored checklist with issues.
package analyzers

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// Credentials are per-request API keys. Empty fields fall back to the keys the
// analyzer was constructed with.
type Credentials struct {
	GeminiAPIKey    string
	PageSpeedAPIKey string
}

// Page is the homepage data handed to every analyzer.
type Page struct {
	URL         string
	Fetch       model.PageFetchResult
	Language    string
	Credentials Credentials

	doc *goquery.Document
}

// NewPage wraps a successful fetch of url.
func NewPage(url string, fetch model.PageFetchResult, lang string, creds Credentials) *Page {
	return &Page{URL: url, Fetch: fetch, Language: lang, Credentials: creds}
}

// HTML returns the page body.
func (p *Page) HTML() string {
	return p.Fetch.Content
}

// Document parses the page body once and returns a fresh copy per call, so
// analyzers that remove nodes do not affect each other.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML()))
		if err != nil {
			return nil, err
		}
		p.doc = doc
	}
	return goquery.CloneDocument(p.doc), nil
}

// Analyzer produces the result for one category.
type Analyzer interface {
	Category() string
	Analyze(ctx context.Context, page *Page) (model.CategoryResult, error)
}

// pageFetcher is the page retrieval the analyzers need for side resources
// such as robots.txt.
type pageFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) model.PageFetchResult
}

// checklist accumulates checks and issues for one category.
type checklist struct {
	result model.CategoryResult
}

func newChecklist() *checklist {
	return &checklist{result: model.NewCategoryResult()}
}

func (c *checklist) check(name, value string, pass bool, score float64) {
	c.result.Checks[name] = model.CheckEntry{Value: value, Pass: pass, Score: score}
}

func (c *checklist) checkExtra(name, value string, pass bool, score float64, extra map[string]string) {
	c.result.Checks[name] = model.CheckEntry{Value: value, Pass: pass, Score: score, Extra: extra}
}

func (c *checklist) issue(sev model.Severity, impact int, title, description, fix string) {
	c.result.Issues = append(c.result.Issues, model.Issue{
		Severity:    sev,
		Title:       title,
		Impact:      impact,
		Description: description,
		Fix:         fix,
	})
}

// done sets the category score to the mean of the check scores.
func (c *checklist) done() model.CategoryResult {
	if len(c.result.Checks) > 0 {
		var sum float64
		for _, entry := range c.result.Checks {
			sum += entry.Score
		}
		c.result.Score = sum / float64(len(c.result.Checks))
	}
	return c.result
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
