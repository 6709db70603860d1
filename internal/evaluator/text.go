package evaluator

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// MaxTextChars caps the page text sent with a single prompt.
const MaxTextChars = 10000

var blankRuns = regexp.MustCompile(`\n{3,}`)

// PageText converts page HTML into markdown suitable for a prompt, with
// scripts, styles and navigation chrome removed, truncated to MaxTextChars.
func PageText(html string) string {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.Remove("script", "style", "noscript", "nav", "footer", "iframe", "svg", "form")

	text, err := converter.ConvertString(html)
	if err != nil {
		text = html
	}
	text = strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
	return truncate(text, MaxTextChars)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
