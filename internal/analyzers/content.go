package analyzers

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	longParagraphWords = 150
	topKeywordCount    = 5
	minReadableWords   = 50
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`i w z na do się to że po jest być o ale dla od przez oraz jak jako
		więcej też już tylko bardzo był może można we ze and the a an of to in for on with at by from
		as is are was were this that these those have has your you our their will would which what`) {
		stopWords[w] = struct{}{}
	}
}

// Content checks the amount, density and readability of the visible text.
type Content struct{}

// Category implements Analyzer.
func (Content) Category() string { return model.CategoryContent }

// Analyze implements Analyzer.
func (Content) Analyze(_ context.Context, page *Page) (model.CategoryResult, error) {
	doc, err := page.Document()
	if err != nil {
		return model.CategoryResult{}, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, nav, footer, header").Remove()

	text := visibleText(doc.Selection)
	words := strings.Fields(text)

	c := newChecklist()
	checkWordCount(c, len(words))
	checkTextRatio(c, utf8.RuneCountInString(text), utf8.RuneCountInString(page.HTML()))
	checkReadability(c, text, len(words))
	checkKeywordDensity(c, words)
	checkParagraphs(c, doc)
	return c.done(), nil
}

func checkWordCount(c *checklist, n int) {
	var score float64
	switch {
	case n >= 1500:
		score = 100
	case n >= 600:
		score = 90
	case n >= 300:
		score = 60
	default:
		score = 20
	}
	c.check("word_count", fmt.Sprintf("%d words", n), n >= 300, score)

	switch {
	case n < 300:
		c.issue(model.SeverityImportant, 8,
			fmt.Sprintf("Too little content: %d words", n),
			"Aim for 600-1500+ words. Thin content ranks poorly.",
			"Expand the page to at least 600 words of useful text.")
	case n < 600:
		c.issue(model.SeverityRecommendation, 5,
			fmt.Sprintf("Light content: %d words", n),
			"Aim for 600-1500+ words. Thin content ranks poorly.",
			"Expand the page to at least 600 words of useful text.")
	}
}

func checkTextRatio(c *checklist, textLen, htmlLen int) {
	var ratio float64
	if htmlLen > 0 {
		ratio = float64(textLen) / float64(htmlLen) * 100
	}
	c.check("text_html_ratio", fmt.Sprintf("%.1f%%", ratio), ratio >= 15,
		scoreIf(ratio >= 15, 100, float64(int(ratio/15*100))))
	if ratio < 15 {
		c.issue(model.SeverityRecommendation, 4,
			fmt.Sprintf("Low text-to-HTML ratio: %.1f%%", ratio),
			"Too much markup for the amount of text (aim for more than 15%).",
			"Add content or simplify the HTML.")
	}
}

func checkReadability(c *checklist, text string, wordCount int) {
	if wordCount <= minReadableWords {
		c.check("readability", "not enough text", false, 0)
		return
	}

	ease := fleschReadingEase(text)
	var score float64
	var label string
	switch {
	case ease >= 60:
		score, label = 100, "easy"
	case ease >= 50:
		score, label = 80, "fair"
	default:
		score, label = 60, "difficult"
	}
	c.check("readability", fmt.Sprintf("%.0f (%s)", ease, label), ease >= 50, score)
	if ease < 50 {
		c.issue(model.SeverityRecommendation, 3,
			"Text is hard to read",
			fmt.Sprintf("Reading ease score: %.0f (higher is easier).", ease),
			"Use shorter sentences and simpler words.")
	}
}

type keywordCount struct {
	word  string
	count int
	first int
}

func topKeywords(words []string, n int) []keywordCount {
	counts := map[string]*keywordCount{}
	for i, w := range words {
		w = strings.ToLower(strings.Trim(w, ".,;:!?\"'()[]{}«»„”“-–"))
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if kc, ok := counts[w]; ok {
			kc.count++
			continue
		}
		counts[w] = &keywordCount{word: w, count: 1, first: i}
	}

	out := make([]keywordCount, 0, len(counts))
	for _, kc := range counts {
		out = append(out, *kc)
	}
	slices.SortFunc(out, func(a, b keywordCount) int {
		if a.count != b.count {
			return cmp.Compare(b.count, a.count)
		}
		return cmp.Compare(a.first, b.first)
	})
	return out[:min(len(out), n)]
}

func checkKeywordDensity(c *checklist, words []string) {
	top := topKeywords(words, topKeywordCount)
	if len(top) == 0 {
		c.check("keyword_density", "N/A", true, 70)
		return
	}

	density := float64(top[0].count) / float64(len(words)) * 100
	var score float64
	switch {
	case density >= 1 && density <= 3:
		score = 100
	case density < 5:
		score = 50
	}

	keywords := make([]string, len(top))
	for i, kc := range top {
		keywords[i] = fmt.Sprintf("%s:%d", kc.word, kc.count)
	}
	c.checkExtra("keyword_density", fmt.Sprintf("%.1f%% (%q)", density, top[0].word),
		density >= 1 && density <= 3, score,
		map[string]string{"top_keywords": strings.Join(keywords, ", ")})

	if density > 5 {
		c.issue(model.SeverityImportant, 7,
			fmt.Sprintf("Keyword stuffing: %q (%.1f%%)", top[0].word, density),
			"Keyword density above 5% looks like spam.",
			"Use synonyms and more natural language.")
	}
}

func checkParagraphs(c *checklist, doc *goquery.Document) {
	paragraphs := doc.Find("p")
	long := paragraphs.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return len(strings.Fields(s.Text())) > longParagraphWords
	}).Length()

	total := paragraphs.Length()
	c.check("paragraphs", fmt.Sprintf("%d paragraphs", total),
		float64(long) < float64(total)*0.3,
		scoreIf(long == 0, 100, 70))
	if long > 0 {
		c.issue(model.SeverityRecommendation, 3,
			fmt.Sprintf("%d long paragraphs (over %d words)", long, longParagraphWords),
			"Long paragraphs are hard to read.",
			"Split long paragraphs into 50-100 word chunks.")
	}
}

// visibleText joins the text nodes under sel with single spaces.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
