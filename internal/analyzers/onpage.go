package analyzers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	titleMin, titleMax = 50, 60
	descMin, descMax   = 150, 160
)

var openGraphTags = []string{"og:title", "og:description", "og:image", "og:type"}

// OnPage checks title, meta description, headings, image alt text, Open Graph
// tags and internal linking.
type OnPage struct{}

// Category implements Analyzer.
func (OnPage) Category() string { return model.CategoryOnPage }

// Analyze implements Analyzer.
func (OnPage) Analyze(_ context.Context, page *Page) (model.CategoryResult, error) {
	doc, err := page.Document()
	if err != nil {
		return model.CategoryResult{}, fmt.Errorf("parse html: %w", err)
	}

	c := newChecklist()
	checkTitle(c, doc)
	checkMetaDescription(c, doc)
	checkHeadings(c, doc)
	checkImages(c, doc)
	checkOpenGraph(c, doc)
	checkLinks(c, doc, page.URL)
	return c.done(), nil
}

func checkTitle(c *checklist, doc *goquery.Document) {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		c.check("title", "missing", false, 0)
		c.issue(model.SeverityCritical, 10,
			"Missing title tag",
			"The title tag is the foundation of on-page SEO.",
			"Add <title>Your Title</title> to <head>.")
		return
	}

	title := strings.TrimSpace(sel.Text())
	n := utf8.RuneCountInString(title)
	extra := map[string]string{"text": shorten(title, 60)}
	value := fmt.Sprintf("%d characters", n)

	switch {
	case n >= titleMin && n <= titleMax:
		c.checkExtra("title", value, true, 100, extra)
	case n >= 30 && n <= 70:
		c.checkExtra("title", value, false, 70, extra)
		verb := "Lengthen"
		if n > titleMax {
			verb = "Shorten"
		}
		c.issue(model.SeverityImportant, 7,
			"Title tag outside optimal length",
			fmt.Sprintf("Length: %d characters. Optimal: %d-%d.", n, titleMin, titleMax),
			fmt.Sprintf("%s the title to %d-%d characters.", verb, titleMin, titleMax))
	default:
		c.checkExtra("title", value, false, 30, extra)
		c.issue(model.SeverityCritical, 9,
			"Title tag far too short or long",
			fmt.Sprintf("Length: %d characters.", n),
			fmt.Sprintf("Rewrite the title to %d-%d characters.", titleMin, titleMax))
	}
}

func checkMetaDescription(c *checklist, doc *goquery.Document) {
	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	desc = strings.TrimSpace(desc)
	if desc == "" {
		c.check("meta_description", "missing", false, 0)
		c.issue(model.SeverityImportant, 7,
			"Missing meta description",
			"The meta description drives click-through rate from search results.",
			`Add <meta name="description" content="...">.`)
		return
	}

	n := utf8.RuneCountInString(desc)
	ok := n >= descMin && n <= descMax
	c.checkExtra("meta_description", fmt.Sprintf("%d characters", n), ok, scoreIf(ok, 100, 50),
		map[string]string{"text": shorten(desc, 80)})
	if !ok {
		c.issue(model.SeverityImportant, 6,
			"Meta description outside optimal length",
			fmt.Sprintf("Length: %d. Optimal: %d-%d.", n, descMin, descMax),
			"Adjust the length and add a call to action.")
	}
}

func checkHeadings(c *checklist, doc *goquery.Document) {
	h1 := doc.Find("h1")
	switch h1.Length() {
	case 1:
		c.checkExtra("h1", "1 H1", true, 100,
			map[string]string{"text": shorten(strings.TrimSpace(h1.Text()), 60)})
	case 0:
		c.check("h1", "missing", false, 0)
		c.issue(model.SeverityCritical, 9,
			"Missing H1 heading",
			"The H1 states the main topic of the page.",
			"Add a single H1 describing the page.")
	default:
		c.check("h1", fmt.Sprintf("%d H1 (too many)", h1.Length()), false, 50)
		c.issue(model.SeverityImportant, 6,
			fmt.Sprintf("More than one H1 (%d)", h1.Length()),
			"A page should have exactly one H1.",
			"Keep one H1 and turn the others into H2.")
	}

	h2, h3 := doc.Find("h2").Length(), doc.Find("h3").Length()
	c.check("heading_structure", fmt.Sprintf("H2:%d, H3:%d", h2, h3), h2 > 0, scoreIf(h2 > 0, 100, 70))
}

func checkImages(c *checklist, doc *goquery.Document) {
	images := doc.Find("img")
	total := images.Length()
	withAlt := images.FilterFunction(func(_ int, s *goquery.Selection) bool {
		alt, _ := s.Attr("alt")
		return strings.TrimSpace(alt) != ""
	}).Length()

	pct := 100.0
	if total > 0 {
		pct = float64(withAlt) / float64(total) * 100
	}
	c.check("images_alt", fmt.Sprintf("%d/%d with alt", withAlt, total), pct >= 90, float64(int(pct)))

	if total > 0 && pct < 90 {
		missing := total - withAlt
		sev, impact := model.SeverityRecommendation, 5
		if pct < 50 {
			sev, impact = model.SeverityImportant, 8
		}
		c.issue(sev, impact,
			fmt.Sprintf("%d images without alt text", missing),
			fmt.Sprintf("%d of %d images have no alt text.", missing, total),
			"Add descriptive alt text to every image.")
	}
}

func checkOpenGraph(c *checklist, doc *goquery.Document) {
	present := 0
	for _, tag := range openGraphTags {
		if doc.Find(fmt.Sprintf(`meta[property=%q]`, tag)).Length() > 0 {
			present++
		}
	}
	c.check("open_graph", fmt.Sprintf("%d/%d OG tags", present, len(openGraphTags)), present >= 3,
		float64(present*100/len(openGraphTags)))
	if present < 3 {
		c.issue(model.SeverityRecommendation, 4,
			"Incomplete Open Graph tags",
			fmt.Sprintf("%d basic Open Graph tags are missing.", len(openGraphTags)-present),
			"Add og:title, og:description, og:image and og:type.")
	}
}

func checkLinks(c *checklist, doc *goquery.Document, pageURL string) {
	base, _ := url.Parse(pageURL)

	var internal, external int
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isInternalLink(base, href) {
			internal++
		} else {
			external++
		}
	})

	c.check("links", fmt.Sprintf("internal: %d, external: %d", internal, external),
		internal >= 5 && internal <= 100,
		scoreIf(internal >= 10 && internal <= 50, 100, 70))
	if internal < 5 {
		c.issue(model.SeverityRecommendation, 5,
			"Few internal links",
			fmt.Sprintf("Only %d internal links.", internal),
			"Link to more subpages (10-30 is a good range).")
	}
}

// isInternalLink treats relative links and links to the page's host as
// internal.
func isInternalLink(base *url.URL, href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	if u.Host == "" {
		return u.Scheme == "" || u.Scheme == "http" || u.Scheme == "https"
	}
	return base != nil && strings.EqualFold(u.Hostname(), base.Hostname())
}
