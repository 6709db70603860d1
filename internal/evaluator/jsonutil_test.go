package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluatorJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		required []string
		wantKey  string
		wantErr  bool
	}{
		{
			name:    "plain JSON",
			input:   `{"site_type": "blog"}`,
			wantKey: "site_type",
		},
		{
			name:    "markdown code block",
			input:   "```json\n{\"site_type\": \"blog\"}\n```",
			wantKey: "site_type",
		},
		{
			name:    "code block with trailing text",
			input:   "```json\n{\"site_type\": \"blog\"}\n```\n\n**Notes:** looks like a blog.",
			wantKey: "site_type",
		},
		{
			name:    "prose around object",
			input:   "Here is the analysis:\n{\"holistic_score\": 72}\nHope this helps!",
			wantKey: "holistic_score",
		},
		{
			name:    "line comments",
			input:   "{\n  \"pages\": [\n    \"https://example.com/a\", // category\n    \"https://example.com/b\"  // product\n  ]\n}",
			wantKey: "pages",
		},
		{
			name:    "comments and trailing commas",
			input:   "{\n  \"items\": [\n    \"one\",  // first\n    \"two\",  // second\n  ],\n}",
			wantKey: "items",
		},
		{
			name:    "URL in string not stripped",
			input:   `{"url": "https://example.com/path"}`,
			wantKey: "url",
		},
		{
			name:     "required keys present",
			input:    `{"holistic_score": 70, "template_insights": [], "scalable_recommendations": []}`,
			required: []string{"holistic_score", "template_insights", "scalable_recommendations"},
			wantKey:  "template_insights",
		},
		{
			name:     "required key missing",
			input:    `{"holistic_score": 70}`,
			required: []string{"holistic_score", "template_insights"},
			wantErr:  true,
		},
		{
			name:     "required key null",
			input:    `{"site_type": null, "selected_pages": []}`,
			required: []string{"site_type"},
			wantErr:  true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not analyze this page.",
			wantErr: true,
		},
		{
			name:    "truncated object",
			input:   `{"site_type": "blog", "selected_pages": [`,
			wantErr: true,
		},
		{
			name:    "top-level array",
			input:   `["a", "b"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseEvaluatorJSON(tt.input, tt.required...)

			if tt.wantErr {
				require.Error(t, err)
				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr), "want *ParseError, got %T", err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, obj, tt.wantKey)
		})
	}
}

func TestDecodeEvaluatorJSON(t *testing.T) {
	type result struct {
		Score float64  `json:"score"`
		Tags  []string `json:"tags"`
	}

	t.Run("decodes cleaned document", func(t *testing.T) {
		got, err := DecodeEvaluatorJSON[result]("```json\n{\"score\": 81.5, \"tags\": [\"a\", \"b\",]}\n```", "score")
		require.NoError(t, err)
		assert.Equal(t, 81.5, got.Score)
		assert.Equal(t, []string{"a", "b"}, got.Tags)
	})

	t.Run("type mismatch is a parse error", func(t *testing.T) {
		_, err := DecodeEvaluatorJSON[result](`{"score": "high"}`, "score")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestStripLineComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"a": 1, // note`, `"a": 1,`},
		{`"url": "https://x.test/a//b"`, `"url": "https://x.test/a//b"`},
		{`"q": "say \"//\" here" // tail`, `"q": "say \"//\" here"`},
		{`no comment`, `no comment`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripLineComment(tt.in), tt.in)
	}
}
