package pagemeta

import (
	"strings"
)

// DefaultLanguage is used when nothing on the page says otherwise.
const DefaultLanguage = "en"

var supportedLanguages = map[string]bool{
	"pl": true,
	"en": true,
	"de": true,
	"es": true,
	"fr": true,
}

var (
	polishIndicators  = []string{"jest", "się", "nie", "czy", "jak", "który", "dla"}
	englishIndicators = []string{"the", "is", "are", "and", "for", "with", "that"}
)

// Language picks the page language from the <html lang> attribute, then the
// content-language meta tag, then a Polish/English word heuristic. Languages
// the evaluator prompts do not cover collapse to DefaultLanguage.
func (m *Metadata) Language() string {
	for _, hint := range []string{m.Lang, m.ContentLanguage} {
		if code := languageCode(hint); code != "" {
			return supported(code)
		}
	}
	return guessLanguage(m.TextSample)
}

// DetectLanguage parses html and returns its language.
func DetectLanguage(html string) string {
	m, err := Parse(strings.NewReader(html))
	if err != nil {
		return DefaultLanguage
	}
	return m.Language()
}

func languageCode(hint string) string {
	hint = strings.TrimSpace(hint)
	if len(hint) < 2 {
		return ""
	}
	return strings.ToLower(hint[:2])
}

func supported(code string) string {
	if supportedLanguages[code] {
		return code
	}
	return DefaultLanguage
}

func guessLanguage(sample string) string {
	if len(sample) > 500 {
		sample = sample[:500]
	}
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(sample)) {
		words[strings.Trim(w, ".,;:!?()\"'")] = true
	}

	count := func(indicators []string) int {
		n := 0
		for _, w := range indicators {
			if words[w] {
				n++
			}
		}
		return n
	}

	if count(polishIndicators) > count(englishIndicators) {
		return "pl"
	}
	return DefaultLanguage
}
