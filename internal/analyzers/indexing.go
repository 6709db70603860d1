package analyzers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"github.com/temoto/robotstxt"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	sideResourceTimeout = 5 * time.Second
	maxSitemapEntries   = 50000
	robotsPreviewChars  = 200
	crawlerAgent        = "Googlebot"
)

// Indexing checks robots.txt, sitemap.xml, the canonical link, meta robots
// and structured data.
type Indexing struct {
	fetcher pageFetcher
	timeout time.Duration
}

// NewIndexing returns an Indexing analyzer that retrieves robots.txt and the
// sitemap through fetcher.
func NewIndexing(fetcher pageFetcher) *Indexing {
	return &Indexing{fetcher: fetcher, timeout: sideResourceTimeout}
}

// Category implements Analyzer.
func (*Indexing) Category() string { return model.CategoryIndexing }

// Analyze implements Analyzer.
func (a *Indexing) Analyze(ctx context.Context, page *Page) (model.CategoryResult, error) {
	doc, err := page.Document()
	if err != nil {
		return model.CategoryResult{}, fmt.Errorf("parse html: %w", err)
	}
	root, err := siteRoot(page.URL)
	if err != nil {
		return model.CategoryResult{}, err
	}

	c := newChecklist()
	a.checkRobots(ctx, c, root+"/robots.txt")
	a.checkSitemap(ctx, c, root+"/sitemap.xml")
	checkCanonical(c, doc)
	checkMetaRobots(c, doc)
	checkSchema(c, doc)
	return c.done(), nil
}

func (a *Indexing) checkRobots(ctx context.Context, c *checklist, robotsURL string) {
	res := a.fetcher.Fetch(ctx, robotsURL, a.timeout)
	if !res.Success {
		c.check("robots_txt", "error", false, 50)
		return
	}
	if res.StatusCode != http.StatusOK {
		c.check("robots_txt", fmt.Sprintf("missing (%d)", res.StatusCode), true, 80)
		c.issue(model.SeverityRecommendation, 2,
			"Missing robots.txt",
			"A robots.txt file gives control over crawling.",
			"Create a basic robots.txt that points to the sitemap.")
		return
	}

	robots, err := robotstxt.FromStatusAndBytes(res.StatusCode, []byte(res.Content))
	if err != nil {
		c.check("robots_txt", "unparsable", false, 50)
		return
	}

	blocksAll := !robots.TestAgent("/", crawlerAgent)
	hasSitemap := len(robots.Sitemaps) > 0
	c.checkExtra("robots_txt", "present", !blocksAll, scoreIf(!blocksAll && hasSitemap, 100, 70),
		map[string]string{"preview": shorten(res.Content, robotsPreviewChars)})

	if blocksAll {
		c.issue(model.SeverityCritical, 10,
			"robots.txt blocks the whole site",
			"Search engine crawlers are disallowed from the homepage.",
			"Remove the blanket Disallow rule from robots.txt immediately.")
	}
	if !hasSitemap {
		c.issue(model.SeverityRecommendation, 3,
			"robots.txt does not reference a sitemap",
			"No Sitemap: line in robots.txt.",
			"Add a line such as: Sitemap: https://example.com/sitemap.xml")
	}
}

func (a *Indexing) checkSitemap(ctx context.Context, c *checklist, sitemapURL string) {
	res := a.fetcher.Fetch(ctx, sitemapURL, a.timeout)
	if !res.Success {
		c.check("sitemap", "error", false, 0)
		return
	}
	if res.StatusCode != http.StatusOK {
		c.check("sitemap", fmt.Sprintf("missing (%d)", res.StatusCode), false, 0)
		c.issue(model.SeverityCritical, 8,
			"Missing sitemap.xml",
			"A sitemap helps search engines discover the site's pages.",
			"Generate and publish sitemap.xml.")
		return
	}

	count, err := countSitemapURLs(res.Content)
	if err != nil {
		c.check("sitemap", "present (invalid XML)", false, 50)
		c.issue(model.SeverityImportant, 7,
			"Invalid sitemap",
			"sitemap.xml exists but is not well-formed XML.",
			"Fix the XML syntax of sitemap.xml.")
		return
	}

	c.check("sitemap", fmt.Sprintf("present (%d URLs)", count), true, 100)
	if count > maxSitemapEntries {
		c.issue(model.SeverityImportant, 6,
			"Sitemap too large",
			fmt.Sprintf("%d URLs (the limit is %d).", count, maxSitemapEntries),
			"Split the sitemap and reference the parts from a sitemap index.")
	}
}

func countSitemapURLs(body string) (int, error) {
	doc, err := xmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return 0, err
	}
	if xmlquery.FindOne(doc, "/*") == nil {
		return 0, fmt.Errorf("no root element")
	}
	return len(xmlquery.Find(doc, "//*[local-name()='url']")), nil
}

func checkCanonical(c *checklist, doc *goquery.Document) {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if ok && strings.TrimSpace(href) != "" {
		c.checkExtra("canonical", "present", true, 100, map[string]string{"url": href})
		return
	}
	c.check("canonical", "missing", false, 60)
	c.issue(model.SeverityRecommendation, 5,
		"Missing canonical tag",
		"A canonical link prevents duplicate content.",
		`Add <link rel="canonical" href="URL"> to <head>.`)
}

func checkMetaRobots(c *checklist, doc *goquery.Document) {
	sel := doc.Find(`meta[name="robots"]`).First()
	if sel.Length() == 0 {
		c.check("meta_robots", "missing (index by default)", true, 100)
		return
	}

	content := strings.ToLower(sel.AttrOr("content", ""))
	noindex := strings.Contains(content, "noindex")
	c.check("meta_robots", content, !noindex, scoreIf(noindex, 0, 100))
	if noindex {
		c.issue(model.SeverityCritical, 10,
			"Page is marked noindex",
			`meta robots="noindex" keeps the page out of search results.`,
			"Remove noindex immediately.")
	}
}

func checkSchema(c *checklist, doc *goquery.Document) {
	n := doc.Find(`script[type="application/ld+json"]`).Length()
	value := "missing"
	if n > 0 {
		value = fmt.Sprintf("%d schema", n)
	}
	c.check("schema_markup", value, n > 0, scoreIf(n > 0, 100, 40))
	if n == 0 {
		c.issue(model.SeverityRecommendation, 6,
			"Missing schema markup",
			"Schema.org structured data enables rich results.",
			"Add JSON-LD schema such as Organization or Article.")
	}
}

// siteRoot returns scheme://host of pageURL.
func siteRoot(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid page url %q", pageURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
