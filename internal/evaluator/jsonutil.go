package evaluator

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// fencedBlock matches a ```json ... ``` or ``` ... ``` block.
	fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\s*```")
	// trailingComma matches a comma directly before a closing bracket.
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseEvaluatorJSON extracts the JSON object from an evaluator response and
// checks that every required key is present and non-null.
//
// Extraction tries, in order: the body of a fenced code block, then the span
// from the first '{' to the last '}'. Line comments and trailing commas are
// removed before decoding.
func ParseEvaluatorJSON(text string, required ...string) (map[string]json.RawMessage, error) {
	raw := extractObject(text)
	if raw == "" {
		return nil, &ParseError{Reason: "no JSON object found", Snippet: snippet(text)}
	}
	raw = cleanJSON(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, &ParseError{Reason: err.Error(), Snippet: snippet(raw)}
	}
	if obj == nil {
		return nil, &ParseError{Reason: "response is null"}
	}

	for _, key := range required {
		v, ok := obj[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, &ParseError{Reason: "missing required key " + key}
		}
	}
	return obj, nil
}

// DecodeEvaluatorJSON parses text with ParseEvaluatorJSON and decodes it into T.
func DecodeEvaluatorJSON[T any](text string, required ...string) (*T, error) {
	obj, err := ParseEvaluatorJSON(text, required...)
	if err != nil {
		return nil, err
	}
	// Re-marshal so the decoded value sees the cleaned document.
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return &out, nil
}

func extractObject(text string) string {
	text = strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(text); len(m) > 1 {
		if inner := strings.TrimSpace(m[1]); strings.HasPrefix(inner, "{") {
			text = inner
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// cleanJSON strips // comments outside string literals and trailing commas.
func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = stripLineComment(line)
	}
	return trailingComma.ReplaceAllString(strings.Join(lines, "\n"), "$1")
}

func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}
	inString, escaped := false, false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
