package analyzers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(parts, " ")
}

func TestContent_WordCountExcludesChrome(t *testing.T) {
	body := fmt.Sprintf(`<html><head><style>.a{}</style></head><body>
		<header>Site header words</header>
		<nav>Home About Contact</nav>
		<script>var ignored = "lots of words here";</script>
		<p>%s</p><p>%s</p>
		<footer>Copyright</footer></body></html>`, words("alpha", 350), words("beta", 350))

	got, err := Content{}.Analyze(context.Background(), htmlPage("https://site.test", body))
	require.NoError(t, err)
	assert.Equal(t, "700 words", got.Checks["word_count"].Value)
	assert.Equal(t, 90.0, got.Checks["word_count"].Score)
	assert.Equal(t, 70.0, got.Checks["paragraphs"].Score, "both paragraphs exceed 150 words")
	assert.Contains(t, issueTitles(got), "2 long paragraphs (over 150 words)")
}

func TestContent_ThinPage(t *testing.T) {
	got, err := Content{}.Analyze(context.Background(), htmlPage("https://site.test", "<html><body><p>Just a few words.</p></body></html>"))
	require.NoError(t, err)

	assert.Equal(t, 20.0, got.Checks["word_count"].Score)
	assert.Equal(t, "not enough text", got.Checks["readability"].Value)
	require.NotEmpty(t, got.Issues)
	assert.Equal(t, "Too little content: 4 words", got.Issues[0].Title)
	assert.Equal(t, 8, got.Issues[0].Impact)
}

func TestContent_KeywordStuffing(t *testing.T) {
	text := strings.Repeat("marketing ", 10) + words("filler", 90)
	got, err := Content{}.Analyze(context.Background(), htmlPage("https://site.test", "<p>"+text+"</p>"))
	require.NoError(t, err)

	kd := got.Checks["keyword_density"]
	assert.Equal(t, `10.0% ("marketing")`, kd.Value)
	assert.Equal(t, 0.0, kd.Score)
	assert.True(t, strings.HasPrefix(kd.Extra["top_keywords"], "marketing:10"))
	assert.Contains(t, issueTitles(got), `Keyword stuffing: "marketing" (10.0%)`)
}

func TestTopKeywords(t *testing.T) {
	got := topKeywords(strings.Fields("Shop the best shoes. Shoes, shoes and boots; boots for every season with shop"), 3)
	require.Len(t, got, 3)
	assert.Equal(t, "shoes", got[0].word)
	assert.Equal(t, 3, got[0].count)
	assert.Equal(t, "shop", got[1].word, "ties are broken by first occurrence")
	assert.Equal(t, "boots", got[2].word)
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"hello", 2},
		{"beautiful", 3},
		{"table", 1},
		{"Rhythm", 1},
		{"123", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countSyllables(tt.word), tt.word)
	}
}

func TestFleschReadingEase(t *testing.T) {
	easy := fleschReadingEase("The cat sat. The dog ran. We had fun.")
	hard := fleschReadingEase("Institutional interoperability necessitates comprehensive organizational standardization considerations notwithstanding bureaucratic administrative complications")
	assert.Greater(t, easy, 90.0)
	assert.Less(t, hard, 0.0)
	assert.Equal(t, 0.0, fleschReadingEase(""))
}

func TestVisibleText(t *testing.T) {
	page := htmlPage("https://site.test", "<p>one</p><p>two<b>three</b></p>\n<div>  four\n five </div>")
	doc, err := page.Document()
	require.NoError(t, err)
	assert.Equal(t, "one two three four five", visibleText(doc.Selection))
}
