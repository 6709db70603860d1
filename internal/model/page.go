package model

import "strings"

// PageFetchResult is the outcome of a single page fetch attempt.
type PageFetchResult struct {
	Success        bool              `json:"success"`
	StatusCode     int               `json:"status_code,omitempty"`
	Content        string            `json:"content,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	FinalURL       string            `json:"finalUrl,omitempty"`
	ElapsedSeconds float64           `json:"elapsedSeconds,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// Header returns the value of a response header, matching the key
// case-insensitively.
func (r PageFetchResult) Header(key string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// CrawlResult holds the homepage HTML and the same-site links found on it.
type CrawlResult struct {
	Success bool     `json:"success"`
	HTML    string   `json:"html,omitempty"`
	Links   []string `json:"links,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// PageFetchOutcome is one entry of a parallel fetch of selected pages.
type PageFetchOutcome struct {
	URL        string `json:"url"`
	Success    bool   `json:"success"`
	HTML       string `json:"html,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}
