package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "FETCH_CONCURRENCY", "MAX_PAGES_TO_ANALYZE", "WEIGHTS_FILE", "ENABLE_MULTI_PAGE", "EVALUATOR_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "ERROR" {
		t.Errorf("Port/LogLevel = %q/%q", cfg.Port, cfg.LogLevel)
	}
	if cfg.FetchConcurrency != 5 || cfg.MaxPagesToAnalyze != 5 {
		t.Errorf("FetchConcurrency/MaxPages = %d/%d", cfg.FetchConcurrency, cfg.MaxPagesToAnalyze)
	}
	if !cfg.EnableMultiPage || cfg.EvaluatorTimeout != 120*time.Second {
		t.Errorf("EnableMultiPage/EvaluatorTimeout = %v/%v", cfg.EnableMultiPage, cfg.EvaluatorTimeout)
	}
	if cfg.Weights["onpage"] != 0.25 || cfg.Weights["advanced"] != 0.15 {
		t.Errorf("Weights = %v", cfg.Weights)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENABLE_AI_ANALYSIS", "false")
	t.Setenv("PAGE_FETCH_TIMEOUT", "15")
	t.Setenv("PSI_TIMEOUT", "45s")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("FETCH_CONCURRENCY", "not-a-number")
	t.Setenv("WEIGHTS_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.EnableAIAnalysis {
		t.Error("EnableAIAnalysis should be false")
	}
	if cfg.PageFetchTimeout != 15*time.Second || cfg.PSITimeout != 45*time.Second {
		t.Errorf("timeouts = %v/%v", cfg.PageFetchTimeout, cfg.PSITimeout)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.FetchConcurrency != 5 {
		t.Errorf("FetchConcurrency = %d, want fallback 5", cfg.FetchConcurrency)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{name: "bad port", key: "PORT", val: "http", want: errInvalidPort},
		{name: "port out of range", key: "PORT", val: "70000", want: errInvalidPort},
		{name: "concurrency too high", key: "FETCH_CONCURRENCY", val: "50", want: errConcurrencyOutOfRange},
		{name: "one page only", key: "MAX_PAGES_TO_ANALYZE", val: "1", want: errMaxPagesOutOfRange},
		{name: "more than four selected pages", key: "MAX_PAGES_TO_ANALYZE", val: "6", want: errMaxPagesOutOfRange},
		{name: "zero timeout", key: "REQUEST_TIMEOUT", val: "0s", want: errNonPositiveTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WEIGHTS_FILE", "")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func writeWeights(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_WeightsFile(t *testing.T) {
	t.Setenv("WEIGHTS_FILE", writeWeights(t, "weights:\n  technical: 0.3\n  content: 0.1\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Weights["technical"] != 0.3 || cfg.Weights["content"] != 0.1 {
		t.Errorf("Weights = %v", cfg.Weights)
	}
	if cfg.Weights["onpage"] != 0.25 {
		t.Errorf("onpage = %v, want default 0.25", cfg.Weights["onpage"])
	}
}

func TestLoadWeights_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no section", content: "other: 1\n"},
		{name: "bad yaml", content: "weights: [\n"},
		{name: "wrong type", content: "weights:\n  technical: high\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadWeights(writeWeights(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadWeights(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_NegativeWeight(t *testing.T) {
	t.Setenv("WEIGHTS_FILE", writeWeights(t, "weights:\n  indexing: -0.2\n"))

	_, err := Load()
	if !errors.Is(err, errInvalidWeights) {
		t.Errorf("err = %v, want %v", err, errInvalidWeights)
	}
}
