// Package audit runs a full SEO audit of a site: it fetches the homepage,
// runs every category analyzer in isolation, aggregates scores and issues,
// optionally extends the audit across several pages and finally attaches an
// action plan.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/maciusman/seo-aiditor/internal/analyzers"
	"github.com/maciusman/seo-aiditor/internal/evaluator"
	"github.com/maciusman/seo-aiditor/internal/model"
	"github.com/maciusman/seo-aiditor/internal/pagemeta"
	"github.com/maciusman/seo-aiditor/internal/platform/errs"
	"github.com/maciusman/seo-aiditor/internal/platform/requestid"
	"github.com/maciusman/seo-aiditor/internal/scoring"
)

// Audit types used in logs and metrics.
const (
	TypeSinglePage = "single-page"
	TypeMultiPage  = model.AuditTypeMultiPage
)

const detailsCoreWebVitals = "core_web_vitals"

// pageFetcher defines how the orchestrator loads the homepage.
type pageFetcher interface {
	Fetch(ctx context.Context, targetURL string, timeout time.Duration) model.PageFetchResult
}

// siteCrawler defines how the multi-page stage discovers and loads pages.
type siteCrawler interface {
	CrawlHomepage(ctx context.Context, homepageURL string) model.CrawlResult
	FetchSelectedPages(ctx context.Context, urls []string, perPageTimeout time.Duration) []model.PageFetchOutcome
}

// Config controls which stages run and how long each may block.
type Config struct {
	Weights scoring.Weights

	EnableAIContent  bool
	EnableActionPlan bool
	EnableMultiPage  bool

	// HomepageTimeout bounds the homepage fetch.
	HomepageTimeout time.Duration
	// SelectedPageTimeout bounds each selected page fetch.
	SelectedPageTimeout time.Duration
	// EvaluatorTimeout bounds each analyzer and each evaluator call.
	EvaluatorTimeout time.Duration

	// MaxPagesToAnalyze counts the homepage.
	MaxPagesToAnalyze int
}

// DefaultConfig returns the stock configuration with every stage enabled.
func DefaultConfig() Config {
	return Config{
		Weights:             scoring.DefaultWeights(),
		EnableAIContent:     true,
		EnableActionPlan:    true,
		EnableMultiPage:     true,
		HomepageTimeout:     10 * time.Second,
		SelectedPageTimeout: 10 * time.Second,
		EvaluatorTimeout:    120 * time.Second,
		MaxPagesToAnalyze:   5,
	}
}

// Request describes one audit.
type Request struct {
	URL         string
	MultiPage   bool
	Credentials analyzers.Credentials
}

// Result holds exactly one of a single-page or a multi-page report.
type Result struct {
	Report    *model.AuditReport
	MultiPage *model.MultiPageAuditReport
}

// Value returns the report that should be rendered to the caller.
func (r *Result) Value() any {
	if r.MultiPage != nil {
		return r.MultiPage
	}
	return r.Report
}

// Homepage returns the homepage report for either result shape.
func (r *Result) Homepage() *model.AuditReport {
	if r.MultiPage != nil {
		return r.MultiPage.Homepage
	}
	return r.Report
}

// Type reports which shape the result has.
func (r *Result) Type() string {
	if r.MultiPage != nil {
		return TypeMultiPage
	}
	return TypeSinglePage
}

// Orchestrator drives audits. It is safe for concurrent use; no state is
// shared between runs.
type Orchestrator struct {
	fetcher   pageFetcher
	crawler   siteCrawler
	analyzers []analyzers.Analyzer
	evaluator *evaluator.Evaluator
	cfg       Config
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records audit metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New returns an Orchestrator. The analyzers are run in model.CategoryOrder
// regardless of the order given; a nil evaluator behaves as unavailable.
func New(fetcher pageFetcher, crawler siteCrawler, list []analyzers.Analyzer, eval *evaluator.Evaluator, cfg Config, opts ...Option) *Orchestrator {
	if eval == nil {
		eval = evaluator.New(nil, nil)
	}
	if cfg.Weights == nil {
		cfg.Weights = scoring.DefaultWeights()
	}
	o := &Orchestrator{
		fetcher:   fetcher,
		crawler:   crawler,
		analyzers: list,
		evaluator: eval,
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NormalizeURL completes a missing scheme with https and rejects anything
// that is not an http(s) URL with a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid URL", Cause: errors.New("url is required")}
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid URL", Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid URL", Cause: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid URL", Cause: errors.New("missing host")}
	}
	return u.String(), nil
}

// Run performs one audit. The only error it returns is for an invalid URL or
// an unreachable homepage; every later failure is recorded in the report.
// A nil sink discards progress.
func (o *Orchestrator) Run(ctx context.Context, req Request, sink ProgressSink) (*Result, error) {
	if sink == nil {
		sink = discardSink{}
	}
	start := time.Now()

	target, err := NormalizeURL(req.URL)
	if err != nil {
		o.metrics.IncAudit(TypeSinglePage, errs.KindOf(err).String())
		return nil, err
	}
	logger := o.logger.With("url", target, requestid.Attr(ctx))
	eval := o.evaluator.WithAPIKey(req.Credentials.GeminiAPIKey)

	sink.Report(5, "Fetching homepage", map[string]any{"url": target})
	logger.Debug("audit state", "state", "fetch_homepage")
	fetched := o.fetcher.Fetch(ctx, target, o.cfg.HomepageTimeout)
	if !fetched.Success {
		o.metrics.IncAudit(TypeSinglePage, errs.Unreachable.String())
		return nil, &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "Cannot fetch page",
			Cause:   errors.New(fetched.Error),
		}
	}

	page := analyzers.NewPage(target, fetched, pagemeta.DetectLanguage(fetched.Content), req.Credentials)
	report := o.homepageReport(ctx, page, sink, logger)

	result := &Result{Report: report}
	if req.MultiPage && o.cfg.EnableMultiPage && o.cfg.EnableAIContent {
		multi, err := o.runMultiPage(ctx, eval, page, report, sink, logger)
		if err != nil {
			stage := stageOf(err)
			logger.Warn("multi-page audit failed, falling back to homepage report", "stage", stage, "error", err)
			o.metrics.IncFallback(stage)
			sink.Report(90, "Multi-page analysis unavailable, using homepage report", map[string]any{"stage": stage})
		} else {
			result = &Result{MultiPage: multi}
		}
	}

	var site *evaluator.SiteContext
	if result.MultiPage != nil {
		site = &evaluator.SiteContext{
			SiteType:         result.MultiPage.SiteType,
			ExecutiveSummary: result.MultiPage.SiteWideAnalysis.ExecutiveSummary,
		}
	}
	sink.Report(95, "Generating action plan", nil)
	logger.Debug("audit state", "state", "action_plan")
	report.AIActionPlan = o.actionPlan(ctx, eval, report, site, logger)

	sink.Report(100, "Audit complete", map[string]any{"final_score": report.FinalScore, "grade": report.Grade.Label})
	o.metrics.IncAudit(result.Type(), "ok")
	o.metrics.ObserveAudit(result.Type(), time.Since(start))
	logger.Info("audit complete",
		"type", result.Type(),
		"final_score", report.FinalScore,
		"grade", report.Grade.Label,
		"issues", len(report.AllIssues),
		"duration", time.Since(start).String(),
	)
	return result, nil
}

// homepageReport runs the category analyzers and aggregates the results.
func (o *Orchestrator) homepageReport(ctx context.Context, page *analyzers.Page, sink ProgressSink, logger *slog.Logger) *model.AuditReport {
	byCategory := make(map[string]analyzers.Analyzer, len(o.analyzers))
	for _, a := range o.analyzers {
		byCategory[a.Category()] = a
	}

	categories := make(map[string]model.CategoryResult, len(model.CategoryOrder))
	for i, name := range model.CategoryOrder {
		sink.Report(10+i*12, "Analyzing "+name, map[string]any{"category": name})
		logger.Debug("audit state", "state", "analyze", "category", name)

		a, ok := byCategory[name]
		switch {
		case name == model.CategoryAIContent && !o.cfg.EnableAIContent:
			categories[name] = model.DisabledCategory()
			continue
		case !ok:
			categories[name] = model.FailedCategory("analyzer not configured")
			continue
		}

		res := o.runAnalyzer(ctx, a, page)
		if res.Error != "" {
			logger.Warn("analyzer failed", "category", name, "error", res.Error)
			o.metrics.IncAnalyzerFailure(name)
		}
		categories[name] = res
	}
	mergeCoreWebVitals(categories)

	sink.Report(80, "Calculating score", nil)
	final := scoring.FinalScore(categories, o.cfg.Weights)
	all, quick := scoring.AggregateIssues(categories)

	return &model.AuditReport{
		URL:        page.URL,
		Timestamp:  o.now().UTC().Format(time.RFC3339),
		Language:   page.Language,
		Categories: categories,
		FinalScore: final,
		Grade:      scoring.GradeFor(final),
		AllIssues:  all,
		QuickWins:  quick,
	}
}

// runAnalyzer isolates one analyzer: errors and panics become a zero-score
// category result.
func (o *Orchestrator) runAnalyzer(ctx context.Context, a analyzers.Analyzer, page *analyzers.Page) (res model.CategoryResult) {
	defer func() {
		if r := recover(); r != nil {
			res = model.FailedCategory(fmt.Sprintf("analyzer panic: %v", r))
		}
	}()

	actx, cancel := o.bounded(ctx)
	defer cancel()

	out, err := a.Analyze(actx, page)
	if err != nil {
		return model.FailedCategory(err.Error())
	}
	if out.Checks == nil {
		out.Checks = map[string]model.CheckEntry{}
	}
	if out.Issues == nil {
		out.Issues = []model.Issue{}
	}
	return out
}

// mergeCoreWebVitals copies the page speed vitals into the technical
// category's details without touching its score.
func mergeCoreWebVitals(categories map[string]model.CategoryResult) {
	cwv, ok := categories[model.CategoryPageSpeed].Details[detailsCoreWebVitals]
	if !ok {
		return
	}
	technical, ok := categories[model.CategoryTechnical]
	if !ok || technical.Error != "" {
		return
	}
	details := maps.Clone(technical.Details)
	if details == nil {
		details = map[string]any{}
	}
	details[detailsCoreWebVitals] = cwv
	technical.Details = details
	categories[model.CategoryTechnical] = technical
}

func (o *Orchestrator) actionPlan(ctx context.Context, eval *evaluator.Evaluator, report *model.AuditReport, site *evaluator.SiteContext, logger *slog.Logger) (plan *model.ActionPlan) {
	if !o.cfg.EnableActionPlan {
		return model.DisabledActionPlan()
	}
	defer func() {
		if r := recover(); r != nil {
			plan = model.FailedActionPlan(fmt.Sprintf("action plan panic: %v", r))
		}
	}()

	pctx, cancel := o.bounded(ctx)
	defer cancel()

	plan = eval.GenerateActionPlan(pctx, report, site)
	if plan.Error != "" {
		logger.Warn("action plan failed", "error", plan.Error)
	}
	return plan
}

func (o *Orchestrator) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.EvaluatorTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.cfg.EvaluatorTimeout)
}
