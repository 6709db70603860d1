package model

// PageSelection is a page the site classifier picked for closer analysis.
type PageSelection struct {
	URL              string `json:"url"`
	PageType         string `json:"page_type"`
	SelectionReason  string `json:"selection_reason"`
	ExpectedInsights string `json:"expected_insights,omitempty"`
}

// SiteCharacteristics describes what kind of business the site serves.
type SiteCharacteristics struct {
	PrimaryPurpose    string `json:"primary_purpose,omitempty"`
	TargetAudience    string `json:"target_audience,omitempty"`
	MonetizationModel string `json:"monetization_model,omitempty"`
	ContentFocus      string `json:"content_focus,omitempty"`
}

// SiteClassification is the site classifier's answer.
type SiteClassification struct {
	Success             bool                `json:"success"`
	SiteType            string              `json:"site_type,omitempty"`
	SiteTypeConfidence  float64             `json:"site_type_confidence,omitempty"`
	SiteCharacteristics SiteCharacteristics `json:"site_characteristics"`
	SelectedPages       []PageSelection     `json:"selected_pages,omitempty"`
	Error               string              `json:"error,omitempty"`
}

// AnalyzedPage is a fetched page handed to the holistic analyzer.
type AnalyzedPage struct {
	URL             string   `json:"url"`
	PageType        string   `json:"page_type"`
	SelectionReason string   `json:"selection_reason,omitempty"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	H1              []string `json:"h1"`
	WordCount       int      `json:"word_count"`
	Text            string   `json:"-"`
}

// TemplateInsight is a finding that applies to every page built from one
// template.
type TemplateInsight struct {
	TemplateName        string   `json:"template_name"`
	PagesAffected       string   `json:"pages_affected,omitempty"`
	CriticalIssues      []string `json:"critical_issues,omitempty"`
	SEOImpact           string   `json:"seo_impact,omitempty"`
	BusinessImpact      string   `json:"business_impact,omitempty"`
	FixDifficulty       string   `json:"fix_difficulty,omitempty"`
	RecommendedFix      string   `json:"recommended_fix,omitempty"`
	ExpectedImprovement string   `json:"expected_improvement,omitempty"`
}

// EEATSignals scores experience, expertise, authoritativeness and trust.
type EEATSignals struct {
	Experience        float64  `json:"experience"`
	Expertise         float64  `json:"expertise"`
	Authoritativeness float64  `json:"authoritativeness"`
	Trustworthiness   float64  `json:"trustworthiness"`
	Evidence          []string `json:"evidence,omitempty"`
}

// ContentPatterns summarizes content consistency across the analyzed pages.
type ContentPatterns struct {
	Strengths         []string     `json:"strengths,omitempty"`
	Weaknesses        []string     `json:"weaknesses,omitempty"`
	ConsistencyScore  float64      `json:"consistency_score"`
	BrandVoiceClarity float64      `json:"brand_voice_clarity"`
	EEATSignals       *EEATSignals `json:"eeat_signals,omitempty"`
}

// SiteStrategy is the evaluator's read on the site's overall SEO strategy.
type SiteStrategy struct {
	PrimaryBusinessGoal       string   `json:"primary_business_goal,omitempty"`
	TargetAudienceClarity     float64  `json:"target_audience_clarity"`
	ValuePropositionStrength  float64  `json:"value_proposition_strength"`
	CompetitivePositioning    string   `json:"competitive_positioning,omitempty"`
	ContentStrategyAssessment string   `json:"content_strategy_assessment,omitempty"`
	MissingCriticalPages      []string `json:"missing_critical_pages,omitempty"`
}

// ConversionWin is a conversion improvement that spans pages.
type ConversionWin struct {
	Improvement        string `json:"improvement"`
	PagesAffected      string `json:"pages_affected,omitempty"`
	ExpectedLift       string `json:"expected_lift,omitempty"`
	ImplementationTime string `json:"implementation_time,omitempty"`
}

// ConversionFunnel describes how visitors move toward a conversion.
type ConversionFunnel struct {
	StagesPresent       []string        `json:"funnel_stages_present,omitempty"`
	Gaps                []string        `json:"funnel_gaps,omitempty"`
	CTAConsistency      float64         `json:"cta_consistency"`
	CTAEffectiveness    string          `json:"cta_effectiveness,omitempty"`
	FrictionPoints      []string        `json:"friction_points,omitempty"`
	QuickConversionWins []ConversionWin `json:"quick_conversion_wins,omitempty"`
}

// ScalableRecommendation is a fix that can be rolled out across many pages.
type ScalableRecommendation struct {
	Category            string   `json:"category,omitempty"`
	Priority            string   `json:"priority,omitempty"`
	Recommendation      string   `json:"recommendation"`
	Scope               string   `json:"scope,omitempty"`
	BusinessImpact      string   `json:"business_impact,omitempty"`
	ImplementationSteps []string `json:"implementation_steps,omitempty"`
	TimeEstimate        string   `json:"time_estimate,omitempty"`
	Owner               string   `json:"owner,omitempty"`
	SuccessMetric       string   `json:"success_metric,omitempty"`
}

// CrossPageIssue is a problem observed on more than one analyzed page.
type CrossPageIssue struct {
	Issue               string   `json:"issue"`
	Severity            string   `json:"severity,omitempty"`
	PagesAffected       []string `json:"pages_affected,omitempty"`
	RootCause           string   `json:"root_cause,omitempty"`
	RecommendedSolution string   `json:"recommended_solution,omitempty"`
}

// HolisticResult holds site-wide findings computed across several pages.
type HolisticResult struct {
	Success                 bool                     `json:"success"`
	HolisticScore           float64                  `json:"holistic_score"`
	ExecutiveSummary        string                   `json:"executive_summary,omitempty"`
	TemplateInsights        []TemplateInsight        `json:"template_insights"`
	ContentPatterns         *ContentPatterns         `json:"content_patterns,omitempty"`
	SiteStrategy            *SiteStrategy            `json:"site_strategy,omitempty"`
	ConversionFunnel        *ConversionFunnel        `json:"conversion_funnel,omitempty"`
	ScalableRecommendations []ScalableRecommendation `json:"scalable_recommendations"`
	CrossPageIssues         []CrossPageIssue         `json:"cross_page_issues,omitempty"`
	Roadmap                 map[string][]string      `json:"roadmap,omitempty"`
	Error                   string                   `json:"error,omitempty"`
}
