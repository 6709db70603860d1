package evaluator

import (
	"context"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// maxPageExcerpt caps the per-page content sent to the holistic prompt.
const maxPageExcerpt = 2000

type pageContext struct {
	model.AnalyzedPage
}

type holisticResponse struct {
	HolisticScore           float64                        `json:"holistic_score"`
	ExecutiveSummary        string                         `json:"executive_summary"`
	TemplateInsights        []model.TemplateInsight        `json:"template_insights"`
	ContentPatterns         *model.ContentPatterns         `json:"content_patterns"`
	SiteStrategy            *model.SiteStrategy            `json:"site_strategy"`
	ConversionFunnel        *model.ConversionFunnel        `json:"conversion_funnel"`
	ScalableRecommendations []model.ScalableRecommendation `json:"scalable_recommendations"`
	CrossPageIssues         []model.CrossPageIssue         `json:"cross_page_issues"`
	Roadmap                 map[string][]string            `json:"roadmap"`
}

// AnalyzeHolistically reviews the homepage and the selected pages together as
// one site. Failures are reported in the result, never as a Go error.
func (e *Evaluator) AnalyzeHolistically(ctx context.Context, homepageURL string, pages []model.AnalyzedPage, siteType, lang string) model.HolisticResult {
	contexts := make([]pageContext, len(pages))
	for i, p := range pages {
		p.Text = truncate(p.Text, maxPageExcerpt)
		contexts[i] = pageContext{p}
	}

	text, err := e.generate(ctx, "analyze_holistically", holisticPrompt(homepageURL, siteType, lang, contexts))
	if err != nil {
		return model.HolisticResult{Error: err.Error()}
	}

	parsed, err := DecodeEvaluatorJSON[holisticResponse](text, "holistic_score", "template_insights", "scalable_recommendations")
	if err != nil {
		return model.HolisticResult{Error: err.Error()}
	}

	return model.HolisticResult{
		Success:                 true,
		HolisticScore:           parsed.HolisticScore,
		ExecutiveSummary:        parsed.ExecutiveSummary,
		TemplateInsights:        parsed.TemplateInsights,
		ContentPatterns:         parsed.ContentPatterns,
		SiteStrategy:            parsed.SiteStrategy,
		ConversionFunnel:        parsed.ConversionFunnel,
		ScalableRecommendations: parsed.ScalableRecommendations,
		CrossPageIssues:         parsed.CrossPageIssues,
		Roadmap:                 parsed.Roadmap,
	}
}
