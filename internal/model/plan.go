package model

// ActionPlan is the remediation plan attached to a report. Exactly one of
// three states holds: Disabled, a non-empty Error, or Success.
type ActionPlan struct {
	Success  bool   `json:"success,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`

	OverallStrategy           *PlanStrategy     `json:"overall_strategy,omitempty"`
	QuickWins                 []PlanQuickWin    `json:"quick_wins,omitempty"`
	Roadmap                   *Roadmap          `json:"roadmap,omitempty"`
	EstimatedScoreProgression *ScoreProgression `json:"estimated_score_progression,omitempty"`
	RecommendedTools          []RecommendedTool `json:"recommended_tools,omitempty"`
	ContentStrategy           *ContentStrategy  `json:"content_strategy,omitempty"`
	ExecutiveSummary          string            `json:"executive_summary,omitempty"`
}

// DisabledActionPlan is the placeholder used when plan generation is off.
func DisabledActionPlan() *ActionPlan {
	return &ActionPlan{Disabled: true, Message: "AI action plan is disabled"}
}

// FailedActionPlan records a plan generation failure.
func FailedActionPlan(err string) *ActionPlan {
	return &ActionPlan{Error: err}
}

// PlanStrategy is the headline of an action plan.
type PlanStrategy struct {
	PrimaryFocus      string   `json:"primary_focus,omitempty"`
	TimeToImprovement string   `json:"estimated_time_to_improvement,omitempty"`
	DifficultyLevel   string   `json:"difficulty_level,omitempty"`
	RequiredResources []string `json:"required_resources,omitempty"`
}

// PlanQuickWin is a fast, high-value task.
type PlanQuickWin struct {
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	EstimatedTime       string   `json:"estimated_time,omitempty"`
	ExpectedImpact      string   `json:"expected_impact,omitempty"`
	BusinessImpact      string   `json:"business_impact,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	ImplementationSteps []string `json:"implementation_steps,omitempty"`
	ToolsNeeded         []string `json:"tools_needed,omitempty"`
}

// Roadmap groups plan items into 30, 60 and 90 day horizons.
type Roadmap struct {
	Days30 []RoadmapItem `json:"30_days"`
	Days60 []RoadmapItem `json:"60_days"`
	Days90 []RoadmapItem `json:"90_days"`
}

// RoadmapItem is one scheduled action.
type RoadmapItem struct {
	Priority        float64  `json:"priority,omitempty"`
	Action          string   `json:"action"`
	Category        string   `json:"category,omitempty"`
	Description     string   `json:"description,omitempty"`
	SuccessCriteria string   `json:"success_criteria,omitempty"`
	EstimatedImpact string   `json:"estimated_impact,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty"`
	Owner           string   `json:"owner,omitempty"`
}

// ScoreProgression forecasts the final score over the roadmap.
type ScoreProgression struct {
	Current     float64 `json:"current"`
	After30Days float64 `json:"after_30_days"`
	After60Days float64 `json:"after_60_days"`
	After90Days float64 `json:"after_90_days"`
	Assumptions string  `json:"assumptions,omitempty"`
}

// RecommendedTool is a tool the plan suggests.
type RecommendedTool struct {
	ToolName string `json:"tool_name"`
	Purpose  string `json:"purpose,omitempty"`
	Cost     string `json:"cost,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ContentStrategy covers editorial recommendations.
type ContentStrategy struct {
	RecommendedContentTypes []string `json:"recommended_content_types,omitempty"`
	KeywordOpportunities    []string `json:"keyword_opportunities,omitempty"`
	ContentGaps             []string `json:"content_gaps,omitempty"`
	CompetitiveAngle        string   `json:"competitive_angle,omitempty"`
}
