package crawler

import (
	"context"
	"net/url"

	"github.com/gocolly/colly/v2"

	"github.com/maciusman/seo-aiditor/internal/fetch"
	"github.com/maciusman/seo-aiditor/internal/model"
)

// CrawlHomepage fetches homepageURL and returns its HTML together with up to
// MaxLinks same-site links, normalized and deduplicated in document order.
// The homepage itself is never listed. When the page links to fewer than ten
// pages, entries from /sitemap.xml fill the list.
func (c *Crawler) CrawlHomepage(ctx context.Context, homepageURL string) model.CrawlResult {
	if err := ctx.Err(); err != nil {
		return model.CrawlResult{Error: err.Error()}
	}

	home, ok := normalize(homepageURL)
	if !ok {
		return model.CrawlResult{Error: "invalid homepage URL"}
	}

	var (
		html     string
		final    = home
		crawlErr error
	)

	links := newLinkSet(home, MaxLinks)

	collector := c.newCollector()
	collector.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
		if u, ok := normalize(r.Request.URL.String()); ok {
			final = u
			links.rescope(u)
		}
	})
	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		links.add(e.Request.AbsoluteURL(e.Attr("href")))
	})
	collector.OnError(func(_ *colly.Response, err error) {
		crawlErr = err
	})

	if err := collector.Visit(homepageURL); err != nil && crawlErr == nil {
		crawlErr = err
	}
	if crawlErr != nil {
		c.logger.Warn("homepage crawl failed", "url", homepageURL, "error", crawlErr)
		return model.CrawlResult{Error: crawlErr.Error()}
	}

	if len(links.links) < minHomepageLinks {
		for _, loc := range c.sitemapLocations(ctx, final) {
			if links.add(loc) {
				break
			}
		}
	}

	c.logger.Debug("homepage crawled", "url", homepageURL, "links", len(links.links))
	return model.CrawlResult{
		Success: true,
		HTML:    html,
		Links:   append([]string{}, links.links...),
	}
}

// sitemapLocations reads up to maxSitemapURLs <loc> entries from the site's
// /sitemap.xml. Any failure yields no entries.
func (c *Crawler) sitemapLocations(ctx context.Context, site *url.URL) []string {
	if ctx.Err() != nil {
		return nil
	}
	sitemap := &url.URL{Scheme: site.Scheme, Host: site.Host, Path: "/sitemap.xml"}

	var locs []string
	collector := c.newCollector()
	collector.OnXML("//loc", func(e *colly.XMLElement) {
		if len(locs) < maxSitemapURLs {
			locs = append(locs, e.Text)
		}
	})
	if err := collector.Visit(sitemap.String()); err != nil {
		c.logger.Debug("sitemap unavailable", "url", sitemap.String(), "error", err)
		return nil
	}
	return locs
}

func (c *Crawler) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(fetch.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(c.timeout)
	if c.transport != nil {
		collector.WithTransport(c.transport)
	}
	return collector
}
