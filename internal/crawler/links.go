package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// linkSet is an insertion-ordered set of normalized same-site links.
type linkSet struct {
	site  string
	limit int
	seen  map[string]bool
	links []string
}

// newLinkSet returns an empty set scoped to home's registrable domain. The
// homepage is pre-marked as seen so it is never listed.
func newLinkSet(home *url.URL, limit int) *linkSet {
	s := &linkSet{
		site:  registrableDomain(home.Hostname()),
		limit: limit,
		seen:  map[string]bool{},
	}
	s.exclude(home)
	return s
}

// rescope moves the set to final's registrable domain, used when the
// homepage redirects. It must run before any link is added.
func (s *linkSet) rescope(final *url.URL) {
	s.site = registrableDomain(final.Hostname())
	s.exclude(final)
}

// exclude marks u as already seen.
func (s *linkSet) exclude(u *url.URL) {
	s.seen[pageKey(u)] = true
}

// add normalizes raw and keeps it if it is an unseen same-site page other
// than the homepage. It reports whether the set is full.
func (s *linkSet) add(raw string) bool {
	if s.full() {
		return true
	}
	u, ok := normalize(raw)
	if !ok {
		return false
	}
	if registrableDomain(u.Hostname()) != s.site {
		return false
	}
	key := pageKey(u)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.links = append(s.links, u.String())
	return s.full()
}

func (s *linkSet) full() bool {
	return len(s.links) >= s.limit
}

// normalize parses an absolute link and drops its query and fragment.
func normalize(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	return u, true
}

// pageKey identifies a page for deduplication: "/about" and "/about/" are the
// same page, as are "https://x" and "https://x/".
func pageKey(u *url.URL) string {
	path := strings.TrimRight(u.EscapedPath(), "/")
	return u.Scheme + "://" + strings.ToLower(u.Host) + path
}

// registrableDomain returns the eTLD+1 of host, or host itself when it has
// none (IP addresses, localhost).
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
