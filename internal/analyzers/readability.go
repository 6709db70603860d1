package analyzers

import (
	"strings"
	"unicode"
)

// fleschReadingEase scores text from roughly 0 (very hard) to 100 (very
// easy). Syllables are approximated by vowel groups, which is good enough for
// the Latin-script languages we report on.
func fleschReadingEase(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentenceCount := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}
	sentenceCount = max(sentenceCount, 1)

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentenceCount)
	syllablesPerWord := float64(syllables) / float64(len(words))
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
}

func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if letters == 0 {
		return 0
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	return max(count, 1)
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouyąęóéèêáàâíìîúùûöüäå", r)
}
