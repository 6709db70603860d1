package evaluator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	maxPlanQuickWins = 5
	maxSummaryIssues = 10
)

// SiteContext carries the multi-page findings an action plan should consider.
type SiteContext struct {
	SiteType         string
	ExecutiveSummary string
}

type auditSummary struct {
	URL            string             `json:"url"`
	FinalScore     float64            `json:"final_score"`
	Grade          string             `json:"grade"`
	CategoryScores map[string]float64 `json:"category_scores"`
	TotalIssues    int                `json:"total_issues"`
	CriticalIssues int                `json:"critical_issues"`
	TopIssues      []model.Issue      `json:"top_issues"`
	SiteType       string             `json:"site_type,omitempty"`
	SiteSummary    string             `json:"site_summary,omitempty"`
}

type planResponse struct {
	OverallStrategy           *model.PlanStrategy     `json:"overall_strategy"`
	QuickWins                 []model.PlanQuickWin    `json:"quick_wins"`
	Roadmap30                 []model.RoadmapItem     `json:"roadmap_30_days"`
	Roadmap60                 []model.RoadmapItem     `json:"roadmap_60_days"`
	Roadmap90                 []model.RoadmapItem     `json:"roadmap_90_days"`
	EstimatedScoreProgression *model.ScoreProgression `json:"estimated_score_progression"`
	RecommendedTools          []model.RecommendedTool `json:"recommended_tools"`
	ContentStrategy           *model.ContentStrategy  `json:"content_strategy"`
	ExecutiveSummary          string                  `json:"executive_summary"`
}

// SummarizeReport builds the compact audit summary sent with the action plan
// prompt. site may be nil.
func SummarizeReport(report *model.AuditReport, site *SiteContext) ([]byte, error) {
	summary := auditSummary{
		URL:            report.URL,
		FinalScore:     report.FinalScore,
		Grade:          report.Grade.Label,
		CategoryScores: make(map[string]float64, len(report.Categories)),
		TotalIssues:    len(report.AllIssues),
		TopIssues:      report.AllIssues[:min(len(report.AllIssues), maxSummaryIssues)],
	}
	for name, c := range report.Categories {
		if c.Disabled {
			continue
		}
		summary.CategoryScores[name] = c.Score
	}
	for _, issue := range report.AllIssues {
		if issue.Severity == model.SeverityCritical {
			summary.CriticalIssues++
		}
	}
	if site != nil {
		summary.SiteType = site.SiteType
		summary.SiteSummary = site.ExecutiveSummary
	}
	return json.MarshalIndent(summary, "", "  ")
}

// GenerateActionPlan asks the model for a prioritized remediation plan for
// report. Failures are reported in the returned plan, never as a Go error.
func (e *Evaluator) GenerateActionPlan(ctx context.Context, report *model.AuditReport, site *SiteContext) *model.ActionPlan {
	summary, err := SummarizeReport(report, site)
	if err != nil {
		return model.FailedActionPlan(fmt.Sprintf("summarize report: %v", err))
	}

	text, err := e.generate(ctx, "generate_action_plan", actionPlanPrompt(report.Language, string(summary)))
	if err != nil {
		return model.FailedActionPlan(err.Error())
	}

	parsed, err := DecodeEvaluatorJSON[planResponse](text, "overall_strategy", "quick_wins", "roadmap_30_days")
	if err != nil {
		return model.FailedActionPlan(err.Error())
	}

	quickWins := parsed.QuickWins[:min(len(parsed.QuickWins), maxPlanQuickWins)]
	return &model.ActionPlan{
		Success:         true,
		Message:         fmt.Sprintf("Generated personalized action plan with %d quick wins", len(quickWins)),
		OverallStrategy: parsed.OverallStrategy,
		QuickWins:       quickWins,
		Roadmap: &model.Roadmap{
			Days30: parsed.Roadmap30,
			Days60: parsed.Roadmap60,
			Days90: parsed.Roadmap90,
		},
		EstimatedScoreProgression: parsed.EstimatedScoreProgression,
		RecommendedTools:          parsed.RecommendedTools,
		ContentStrategy:           parsed.ContentStrategy,
		ExecutiveSummary:          parsed.ExecutiveSummary,
	}
}
