package analyzers

import (
	"context"
	"fmt"

	"github.com/maciusman/seo-aiditor/internal/evaluator"
	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	maxAIIssues      = 5
	maxAIQuickWins   = 3
	aiQuickWinImpact = 8
)

// aiSeverity maps the evaluator's four-level severity onto issue severity and
// impact.
var aiSeverity = map[string]struct {
	severity model.Severity
	impact   int
}{
	"critical": {model.SeverityCritical, 10},
	"high":     {model.SeverityCritical, 9},
	"medium":   {model.SeverityImportant, 6},
	"low":      {model.SeverityRecommendation, 3},
}

// AIContent asks the content evaluator to judge page quality.
type AIContent struct {
	evaluator *evaluator.Evaluator
}

// NewAIContent returns an AIContent analyzer backed by e.
func NewAIContent(e *evaluator.Evaluator) *AIContent {
	return &AIContent{evaluator: e}
}

// Category implements Analyzer.
func (*AIContent) Category() string { return model.CategoryAIContent }

// Analyze implements Analyzer.
func (a *AIContent) Analyze(ctx context.Context, page *Page) (model.CategoryResult, error) {
	e := a.evaluator.WithAPIKey(page.Credentials.GeminiAPIKey)
	if !e.Available() {
		return model.CategoryResult{}, evaluator.ErrUnavailable
	}

	eval, err := e.EvaluateContent(ctx, page.URL, page.HTML(), page.Language)
	if err != nil {
		return model.CategoryResult{}, fmt.Errorf("content evaluation: %w", err)
	}
	return aiContentResult(eval, page.Language), nil
}

func aiContentResult(eval *evaluator.ContentEvaluation, lang string) model.CategoryResult {
	c := newChecklist()

	q := min(max(eval.ContentQualityScore, 0), 100)
	c.check("content_quality", fmt.Sprintf("%.0f/100", q), q >= 60, q)
	if s := eval.EEATAnalysis.OverallScore; s > 0 {
		c.checkExtra("eeat", fmt.Sprintf("%.0f/100", s), s >= 60, s,
			map[string]string{"weakness": eval.EEATAnalysis.BiggestWeakness})
	}
	if s := eval.ContentDepth.DepthScore; s > 0 {
		c.checkExtra("content_depth", eval.ContentDepth.DepthLevel, s >= 60, s,
			map[string]string{"readability": eval.ContentDepth.ReadabilityAssessment})
	}
	if s := eval.SearchIntent.IntentMatchScore; s > 0 {
		c.checkExtra("search_intent", eval.SearchIntent.PrimaryIntent, s >= 60, s,
			map[string]string{"explanation": eval.SearchIntent.Explanation})
	}

	for _, issue := range eval.CriticalIssues[:min(len(eval.CriticalIssues), maxAIIssues)] {
		mapped, ok := aiSeverity[issue.Severity]
		if !ok {
			mapped = aiSeverity["medium"]
		}
		title := issue.Issue
		if title == "" {
			title = "Content issue"
		}
		timeToFix := issue.TimeToFix
		if timeToFix == "" {
			timeToFix = "unknown"
		}
		c.issue(mapped.severity, mapped.impact,
			"AI: "+title,
			fmt.Sprintf("%s Impact: %s", issue.Evidence, issue.Impact),
			fmt.Sprintf("%s (Time: %s)", issue.Fix, timeToFix))
	}

	for _, win := range eval.QuickWins[:min(len(eval.QuickWins), maxAIQuickWins)] {
		c.issue(model.SeverityRecommendation, aiQuickWinImpact,
			"AI Quick Win: "+win.Action,
			"Why: "+win.Why,
			fmt.Sprintf("%s Expected: %s", win.How, win.ExpectedImpact))
	}

	result := c.done()
	result.Score = q

	detected := eval.DetectedLanguage
	if detected == "" {
		detected = lang
	}
	result.Details = map[string]any{
		"language":               detected,
		"page_type":              eval.PageType,
		"search_intent":          eval.SearchIntent,
		"eeat":                   eval.EEATAnalysis,
		"content_depth":          eval.ContentDepth,
		"summary":                eval.OverallSummary,
		"primary_recommendation": eval.PrimaryRecommendation,
	}
	return result
}
