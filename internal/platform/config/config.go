package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maciusman/seo-aiditor/internal/scoring"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: FETCH_CONCURRENCY must be 1-20")
	errMaxPagesOutOfRange    = errors.New("config: MAX_PAGES_TO_ANALYZE must be 2-5")
	errNonPositiveTimeout    = errors.New("config: timeouts must be positive")
	errInvalidWeights        = errors.New("config: invalid weights")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string

	RequestTimeout   time.Duration
	PageFetchTimeout time.Duration
	PSITimeout       time.Duration
	EvaluatorTimeout time.Duration
	MultiPageBudget  time.Duration

	FetchConcurrency  int
	MaxPagesToAnalyze int

	EnableAIAnalysis   bool
	EnableAIActionPlan bool
	EnableMultiPage    bool

	GeminiAPIKey    string
	GeminiModel     string
	PageSpeedAPIKey string

	DatabaseURL string
	WeightsFile string
	Weights     scoring.Weights
}

// Load reads configuration from environment variables with sensible defaults.
// When WEIGHTS_FILE is set the weight table is read from that YAML file.
func Load() (Config, error) {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "ERROR"),

		RequestTimeout:   getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		PageFetchTimeout: getEnvAsDuration("PAGE_FETCH_TIMEOUT", 10*time.Second),
		PSITimeout:       getEnvAsDuration("PSI_TIMEOUT", 30*time.Second),
		EvaluatorTimeout: getEnvAsDuration("EVALUATOR_TIMEOUT", 120*time.Second),
		MultiPageBudget:  getEnvAsDuration("MULTIPAGE_TOTAL_BUDGET", 60*time.Second),

		FetchConcurrency:  getEnvAsInt("FETCH_CONCURRENCY", 5),
		MaxPagesToAnalyze: getEnvAsInt("MAX_PAGES_TO_ANALYZE", 5),

		EnableAIAnalysis:   getEnvAsBool("ENABLE_AI_ANALYSIS", true),
		EnableAIActionPlan: getEnvAsBool("ENABLE_AI_ACTION_PLAN", true),
		EnableMultiPage:    getEnvAsBool("ENABLE_MULTI_PAGE", true),

		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		PageSpeedAPIKey: os.Getenv("PAGESPEED_API_KEY"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		WeightsFile: os.Getenv("WEIGHTS_FILE"),
		Weights:     scoring.DefaultWeights(),
	}

	if cfg.WeightsFile != "" {
		w, err := LoadWeights(cfg.WeightsFile)
		if err != nil {
			return cfg, err
		}
		cfg.Weights = w
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.FetchConcurrency < 1 || c.FetchConcurrency > 20 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.FetchConcurrency)
	}

	if c.MaxPagesToAnalyze < 2 || c.MaxPagesToAnalyze > 5 {
		return fmt.Errorf("%w: got %d", errMaxPagesOutOfRange, c.MaxPagesToAnalyze)
	}

	for name, d := range map[string]time.Duration{
		"REQUEST_TIMEOUT":        c.RequestTimeout,
		"PAGE_FETCH_TIMEOUT":     c.PageFetchTimeout,
		"PSI_TIMEOUT":            c.PSITimeout,
		"EVALUATOR_TIMEOUT":      c.EvaluatorTimeout,
		"MULTIPAGE_TOTAL_BUDGET": c.MultiPageBudget,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s=%s", errNonPositiveTimeout, name, d)
		}
	}

	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errInvalidWeights, err)
	}

	return nil
}

type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a weight table of the form
//
//	weights:
//	  technical: 0.20
//	  onpage: 0.25
//
// Keys missing from the file keep their default value.
func LoadWeights(path string) (scoring.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read weights file: %w", err)
	}

	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse weights file: %w", err)
	}
	if len(f.Weights) == 0 {
		return nil, fmt.Errorf("%w: %s has no weights section", errInvalidWeights, path)
	}

	w := scoring.DefaultWeights()
	for k, v := range f.Weights {
		w[k] = v
	}
	return w, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go durations ("90s") or a plain number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
