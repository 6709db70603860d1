package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maciusman/seo-aiditor/internal/analyzers"
	"github.com/maciusman/seo-aiditor/internal/evaluator"
	"github.com/maciusman/seo-aiditor/internal/model"
	"github.com/maciusman/seo-aiditor/internal/pagemeta"
)

// Multi-page stages, used as the failing stage label on fallback.
const (
	StageCrawl    = "crawl"
	StageClassify = "classify"
	StageFetch    = "fetch"
	StageHolistic = "holistic"
	StagePanic    = "panic"
)

var (
	errNoLinks        = errors.New("no internal links found on homepage")
	errNoPagesFetched = errors.New("none of the selected pages could be fetched")
)

// stageError tags a multi-page failure with the stage it happened in.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }

func stageOf(err error) string {
	var se *stageError
	if errors.As(err, &se) {
		return se.stage
	}
	return "unknown"
}

// runMultiPage extends the homepage report across the pages the classifier
// selects. Any error means the caller should keep the homepage report.
func (o *Orchestrator) runMultiPage(ctx context.Context, eval *evaluator.Evaluator, home *analyzers.Page, report *model.AuditReport, sink ProgressSink, logger *slog.Logger) (multi *model.MultiPageAuditReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			multi, err = nil, &stageError{stage: StagePanic, err: fmt.Errorf("%v", r)}
		}
	}()

	sink.Report(82, "Crawling homepage links", nil)
	logger.Debug("audit state", "state", "crawl")
	crawl := o.crawler.CrawlHomepage(ctx, home.URL)
	if !crawl.Success {
		return nil, &stageError{stage: StageCrawl, err: errors.New(crawl.Error)}
	}
	if len(crawl.Links) == 0 {
		return nil, &stageError{stage: StageCrawl, err: errNoLinks}
	}

	sink.Report(85, "Classifying site and selecting pages", map[string]any{"links": len(crawl.Links)})
	logger.Debug("audit state", "state", "select_pages")
	cctx, cancel := o.bounded(ctx)
	classification := eval.ClassifySiteAndSelectPages(cctx, home.URL, crawl.HTML, crawl.Links, report.Language)
	cancel()
	if !classification.Success {
		return nil, &stageError{stage: StageClassify, err: errors.New(classification.Error)}
	}

	selected := classification.SelectedPages
	if limit := min(max(o.cfg.MaxPagesToAnalyze-1, 0), evaluator.MaxSelectedPages); len(selected) > limit {
		selected = selected[:limit]
	}
	urls := make([]string, len(selected))
	for i, s := range selected {
		urls[i] = s.URL
	}

	sink.Report(88, fmt.Sprintf("Fetching %d selected pages", len(urls)), map[string]any{"urls": urls})
	logger.Debug("audit state", "state", "fetch_selected", "pages", len(urls))
	outcomes := o.crawler.FetchSelectedPages(ctx, urls, o.cfg.SelectedPageTimeout)
	pages, fetchedSelections := analyzedPages(home, selected, outcomes)
	o.metrics.AddPagesFetched(len(fetchedSelections), len(selected)-len(fetchedSelections))
	if len(fetchedSelections) == 0 {
		return nil, &stageError{stage: StageFetch, err: errNoPagesFetched}
	}

	sink.Report(92, "Analyzing site holistically", map[string]any{"pages": len(pages)})
	logger.Debug("audit state", "state", "holistic_analyze", "pages", len(pages))
	hctx, cancel := o.bounded(ctx)
	holistic := eval.AnalyzeHolistically(hctx, home.URL, pages, classification.SiteType, report.Language)
	cancel()
	if !holistic.Success {
		return nil, &stageError{stage: StageHolistic, err: errors.New(holistic.Error)}
	}

	logger.Debug("audit state", "state", "merge")
	return &model.MultiPageAuditReport{
		AuditType:           model.AuditTypeMultiPage,
		URL:                 report.URL,
		Timestamp:           report.Timestamp,
		Language:            report.Language,
		SiteType:            classification.SiteType,
		SiteTypeConfidence:  classification.SiteTypeConfidence,
		SiteCharacteristics: classification.SiteCharacteristics,
		PagesAnalyzed:       len(pages),
		Homepage:            report,
		AdditionalPages:     fetchedSelections,
		SiteWideAnalysis:    &holistic,
		FinalScore:          report.FinalScore,
		HolisticScore:       holistic.HolisticScore,
		Grade:               report.Grade,
	}, nil
}

// analyzedPages joins fetch outcomes to their selections by URL. The homepage
// comes first; selections that failed to fetch are dropped.
func analyzedPages(home *analyzers.Page, selected []model.PageSelection, outcomes []model.PageFetchOutcome) ([]model.AnalyzedPage, []model.PageSelection) {
	byURL := make(map[string]model.PageFetchOutcome, len(outcomes))
	for _, out := range outcomes {
		if out.Success {
			byURL[out.URL] = out
		}
	}

	pages := []model.AnalyzedPage{
		analyzedPage(home.URL, "homepage", "Site entry point", home.HTML()),
	}
	var fetched []model.PageSelection
	for _, s := range selected {
		out, ok := byURL[s.URL]
		if !ok {
			continue
		}
		delete(byURL, s.URL)
		pages = append(pages, analyzedPage(s.URL, s.PageType, s.SelectionReason, out.HTML))
		fetched = append(fetched, s)
	}
	return pages, fetched
}

func analyzedPage(url, pageType, reason, html string) model.AnalyzedPage {
	p := model.AnalyzedPage{
		URL:             url,
		PageType:        pageType,
		SelectionReason: reason,
		H1:              []string{},
		Text:            evaluator.PageText(html),
	}
	meta, err := pagemeta.Parse(strings.NewReader(html))
	if err != nil {
		return p
	}
	p.Title = meta.Title
	p.MetaDescription = meta.MetaDescription
	if len(meta.H1) > 0 {
		p.H1 = meta.H1
	}
	p.WordCount = meta.WordCount
	return p
}
