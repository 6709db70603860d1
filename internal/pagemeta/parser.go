// Package pagemeta extracts the page facts the auditor needs for language
// detection and for describing pages to the content evaluator.
package pagemeta

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// textSampleLimit caps how much visible text is kept for heuristics.
const textSampleLimit = 2000

// Metadata holds everything extracted from a single-pass HTML parse.
type Metadata struct {
	Title           string
	MetaDescription string
	H1              []string
	Lang            string
	ContentLanguage string
	WordCount       int
	TextSample      string
}

// Parse walks the token stream once and collects title, meta description,
// H1 texts, language hints and a visible word count.
func Parse(body io.Reader) (*Metadata, error) {
	m := &Metadata{}
	z := html.NewTokenizer(body)

	var (
		inTitle bool
		inH1    bool
		skip    int // depth inside script/style/noscript
		h1      strings.Builder
		sample  strings.Builder
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				m.TextSample = sample.String()
				return m, nil
			}
			return nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := z.TagName()
			tag := string(tn)

			switch tag {
			case "html":
				if hasAttr {
					m.Lang = attrs(z)["lang"]
				}
			case "title":
				inTitle = tt == html.StartTagToken
			case "h1":
				inH1 = tt == html.StartTagToken
				h1.Reset()
			case "script", "style", "noscript", "template":
				if tt == html.StartTagToken {
					skip++
				}
			case "meta":
				if hasAttr {
					readMeta(m, attrs(z))
				}
			}

		case html.EndTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "title":
				inTitle = false
			case "h1":
				if inH1 {
					if t := collapseSpace(h1.String()); t != "" {
						m.H1 = append(m.H1, t)
					}
					inH1 = false
				}
			case "script", "style", "noscript", "template":
				if skip > 0 {
					skip--
				}
			}

		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if inTitle {
				m.Title = collapseSpace(m.Title + " " + text)
				continue
			}
			if inH1 {
				h1.WriteString(text)
				h1.WriteByte(' ')
			}
			words := strings.Fields(text)
			m.WordCount += len(words)
			if sample.Len() < textSampleLimit && len(words) > 0 {
				sample.WriteString(strings.Join(words, " "))
				sample.WriteByte(' ')
			}
		}
	}
}

func readMeta(m *Metadata, a map[string]string) {
	switch {
	case strings.EqualFold(a["name"], "description"):
		m.MetaDescription = strings.TrimSpace(a["content"])
	case strings.EqualFold(a["http-equiv"], "content-language"):
		m.ContentLanguage = strings.TrimSpace(a["content"])
	}
}

func attrs(z *html.Tokenizer) map[string]string {
	out := map[string]string{}
	for {
		key, val, more := z.TagAttr()
		out[string(key)] = string(val)
		if !more {
			return out
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
