package evaluator

import (
	"context"
)

// ContentEvaluation is the model's review of a single page.
type ContentEvaluation struct {
	DetectedLanguage    string  `json:"detected_language"`
	ContentQualityScore float64 `json:"content_quality_score"`
	PageType            string  `json:"page_type"`

	SearchIntent struct {
		PrimaryIntent    string  `json:"primary_intent"`
		IntentMatchScore float64 `json:"intent_match_score"`
		Explanation      string  `json:"explanation"`
	} `json:"search_intent"`

	EEATAnalysis struct {
		OverallScore    float64 `json:"overall_eeat_score"`
		BiggestWeakness string  `json:"biggest_eeat_weakness"`
	} `json:"eeat_analysis"`

	ContentDepth struct {
		DepthScore            float64 `json:"depth_score"`
		DepthLevel            string  `json:"depth_level"`
		ReadabilityAssessment string  `json:"readability_assessment"`
	} `json:"content_depth"`

	CriticalIssues        []ContentIssue    `json:"critical_issues"`
	QuickWins             []ContentQuickWin `json:"quick_wins"`
	OverallSummary        string            `json:"overall_summary"`
	PrimaryRecommendation string            `json:"primary_recommendation"`
}

// ContentIssue is a problem the model found on the page.
type ContentIssue struct {
	Severity  string `json:"severity"`
	Issue     string `json:"issue"`
	Impact    string `json:"impact"`
	Evidence  string `json:"evidence"`
	Fix       string `json:"fix"`
	TimeToFix string `json:"time_to_fix"`
}

// ContentQuickWin is a cheap improvement the model suggests.
type ContentQuickWin struct {
	Action         string `json:"action"`
	Why            string `json:"why"`
	How            string `json:"how"`
	ExpectedImpact string `json:"expected_impact"`
}

// EvaluateContent asks the model to review the page at url. html is converted
// to markdown before it is sent.
func (e *Evaluator) EvaluateContent(ctx context.Context, url, html, lang string) (*ContentEvaluation, error) {
	text, err := e.generate(ctx, "evaluate_content", contentPrompt(url, lang, PageText(html)))
	if err != nil {
		return nil, err
	}
	return DecodeEvaluatorJSON[ContentEvaluation](text, "content_quality_score")
}
