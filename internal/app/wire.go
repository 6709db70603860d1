// Package app assembles the audit pipeline from configuration.
package app

import (
	"log/slog"

	"github.com/maciusman/seo-aiditor/internal/analyzers"
	"github.com/maciusman/seo-aiditor/internal/audit"
	"github.com/maciusman/seo-aiditor/internal/crawler"
	"github.com/maciusman/seo-aiditor/internal/evaluator"
	"github.com/maciusman/seo-aiditor/internal/fetch"
	"github.com/maciusman/seo-aiditor/internal/platform/config"
)

// NewOrchestrator wires the fetcher, crawler, analyzers and evaluator
// described by cfg. metrics may be nil.
func NewOrchestrator(cfg config.Config, logger *slog.Logger, metrics *audit.Metrics) *audit.Orchestrator {
	transport := fetch.NewTransport(cfg.FetchConcurrency)
	fetcher := fetch.NewClientWithTransport(transport)

	eval := evaluator.New(
		evaluator.NewClient(cfg.GeminiAPIKey,
			evaluator.WithModel(cfg.GeminiModel),
			evaluator.WithLogger(logger),
		),
		logger,
	)

	list := []analyzers.Analyzer{
		analyzers.Technical{},
		analyzers.OnPage{},
		analyzers.NewIndexing(fetcher),
		analyzers.Content{},
		analyzers.NewPageSpeed(cfg.PageSpeedAPIKey,
			analyzers.WithPageSpeedTimeout(cfg.PSITimeout),
			analyzers.WithPageSpeedLogger(logger),
		),
		analyzers.NewAIContent(eval),
	}

	site := crawler.New(fetcher, transport, crawler.Config{
		Timeout:     cfg.RequestTimeout,
		Concurrency: cfg.FetchConcurrency,
		TotalBudget: cfg.MultiPageBudget,
	}, logger)

	return audit.New(fetcher, site, list, eval, OrchestratorConfig(cfg),
		audit.WithLogger(logger),
		audit.WithMetrics(metrics),
	)
}

// OrchestratorConfig maps application configuration onto audit settings.
func OrchestratorConfig(cfg config.Config) audit.Config {
	return audit.Config{
		Weights:             cfg.Weights,
		EnableAIContent:     cfg.EnableAIAnalysis,
		EnableActionPlan:    cfg.EnableAIActionPlan,
		EnableMultiPage:     cfg.EnableMultiPage,
		HomepageTimeout:     cfg.RequestTimeout,
		SelectedPageTimeout: cfg.PageFetchTimeout,
		EvaluatorTimeout:    cfg.EvaluatorTimeout,
		MaxPagesToAnalyze:   cfg.MaxPagesToAnalyze,
	}
}
