package crawler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

func htmlResponder(status int, body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(status, body)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	return httpmock.ResponderFromResponse(resp)
}

func xmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "application/xml")
	return httpmock.ResponderFromResponse(resp)
}

func newTestCrawler(transport *httpmock.MockTransport) *Crawler {
	return New(nil, transport, Config{Timeout: time.Second}, nil)
}

func TestCrawlHomepage_ExtractsSameSiteLinks(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://www.example.com/", htmlResponder(200, `
<html><body>
  <a href="/about">About</a>
  <a href="/about/?ref=nav#team">About again</a>
  <a href="https://blog.example.com/post-1">Blog</a>
  <a href="products?page=2">Products</a>
  <a href="https://www.example.com/">Home</a>
  <a href="/">Home relative</a>
  <a href="#top">Top</a>
  <a href="https://other.org/x">External</a>
  <a href="mailto:hello@example.com">Mail</a>
  <a href="javascript:void(0)">JS</a>
  <a href="HTTPS://WWW.EXAMPLE.COM/Contact">Contact</a>
</body></html>`))

	res := newTestCrawler(transport).CrawlHomepage(context.Background(), "https://www.example.com/")

	if !res.Success {
		t.Fatalf("Success = false, error = %q", res.Error)
	}
	want := []string{
		"https://www.example.com/about",
		"https://blog.example.com/post-1",
		"https://www.example.com/products",
		"https://www.example.com/Contact",
	}
	if !slices.Equal(res.Links, want) {
		t.Errorf("Links = %q, want %q", res.Links, want)
	}
	if !strings.Contains(res.HTML, "About again") {
		t.Error("HTML was not captured")
	}
}

func TestCrawlHomepage_FollowsRedirectToOtherDomain(t *testing.T) {
	transport := httpmock.NewMockTransport()
	redirect := httpmock.NewStringResponse(http.StatusMovedPermanently, "")
	redirect.Header.Set("Location", "https://example.co.uk/")
	transport.RegisterResponder("GET", "https://example.com/", httpmock.ResponderFromResponse(redirect))
	transport.RegisterResponder("GET", "https://example.co.uk/", htmlResponder(200, `
<html><body>
  <a href="/shop">Shop</a>
  <a href="https://www.example.co.uk/about">About</a>
  <a href="https://example.com/old">Old domain</a>
  <a href="/">Home</a>
</body></html>`))

	res := newTestCrawler(transport).CrawlHomepage(context.Background(), "https://example.com/")

	if !res.Success {
		t.Fatalf("Success = false, error = %q", res.Error)
	}
	want := []string{
		"https://example.co.uk/shop",
		"https://www.example.co.uk/about",
	}
	if !slices.Equal(res.Links, want) {
		t.Errorf("Links = %q, want %q", res.Links, want)
	}
}

func TestCrawlHomepage_CapsLinks(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range 150 {
		fmt.Fprintf(&b, `<a href="/page-%d">p</a>`, i)
	}
	b.WriteString("</body></html>")

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://example.com/", htmlResponder(200, b.String()))

	res := newTestCrawler(transport).CrawlHomepage(context.Background(), "https://example.com/")

	if len(res.Links) != MaxLinks {
		t.Fatalf("len(Links) = %d, want %d", len(res.Links), MaxLinks)
	}
	if res.Links[0] != "https://example.com/page-0" || res.Links[99] != "https://example.com/page-99" {
		t.Errorf("unexpected link order: first=%q last=%q", res.Links[0], res.Links[99])
	}
}

func TestCrawlHomepage_SitemapSupplement(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://example.com/", htmlResponder(200,
		`<html><body><a href="/pricing">Pricing</a></body></html>`))
	transport.RegisterResponder("GET", "https://example.com/sitemap.xml", xmlResponder(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
  <url><loc>https://example.com/pricing</loc></url>
  <url><loc>https://example.com/blog/</loc></url>
  <url><loc>https://elsewhere.net/page</loc></url>
</urlset>`))

	res := newTestCrawler(transport).CrawlHomepage(context.Background(), "https://example.com/")

	want := []string{"https://example.com/pricing", "https://example.com/blog/"}
	if !slices.Equal(res.Links, want) {
		t.Errorf("Links = %q, want %q", res.Links, want)
	}
}

func TestCrawlHomepage_MissingSitemapIsIgnored(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://example.com/", htmlResponder(200,
		`<html><body><a href="/a">A</a></body></html>`))
	transport.RegisterResponder("GET", "https://example.com/sitemap.xml", htmlResponder(404, "not found"))

	res := newTestCrawler(transport).CrawlHomepage(context.Background(), "https://example.com/")

	if !res.Success {
		t.Fatalf("Success = false, error = %q", res.Error)
	}
	if !slices.Equal(res.Links, []string{"https://example.com/a"}) {
		t.Errorf("Links = %q", res.Links)
	}
}

func TestCrawlHomepage_ErrorStatus(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://example.com/", htmlResponder(500, "boom"))

	res := newTestCrawler(transport).CrawlHomepage(context.Background(), "https://example.com/")

	if res.Success {
		t.Fatal("Success = true, want false")
	}
	if res.Error == "" {
		t.Error("Error is empty")
	}
}

func TestCrawlHomepage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestCrawler(httpmock.NewMockTransport()).CrawlHomepage(ctx, "https://example.com/")

	if res.Success {
		t.Fatal("Success = true, want false")
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.example.com", "example.com"},
		{"blog.example.com", "example.com"},
		{"shop.example.co.uk", "example.co.uk"},
		{"EXAMPLE.com.", "example.com"},
		{"localhost", "localhost"},
		{"127.0.0.1", "127.0.0.1"},
	}

	for _, tt := range tests {
		if got := registrableDomain(tt.host); got != tt.want {
			t.Errorf("registrableDomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
