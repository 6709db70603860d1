package model

// Category keys used in AuditReport.Categories.
const (
	CategoryTechnical = "technical"
	CategoryOnPage    = "onpage"
	CategoryIndexing  = "indexing"
	CategoryContent   = "content"
	CategoryPageSpeed = "pagespeed"
	CategoryAIContent = "ai_content"
)

// CategoryOrder is the fixed order in which categories are analyzed and their
// issues are collected.
var CategoryOrder = []string{
	CategoryTechnical,
	CategoryOnPage,
	CategoryIndexing,
	CategoryContent,
	CategoryPageSpeed,
	CategoryAIContent,
}

// Severity ranks how urgent an issue is.
type Severity string

const (
	SeverityCritical       Severity = "critical"
	SeverityImportant      Severity = "important"
	SeverityRecommendation Severity = "recommendation"
)

// Issue is a single actionable finding.
type Issue struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Impact      int      `json:"impact"`
	Description string   `json:"description"`
	Fix         string   `json:"fix,omitempty"`
}

// CheckEntry is one line of a category checklist.
type CheckEntry struct {
	Value string            `json:"value"`
	Pass  bool              `json:"pass"`
	Score float64           `json:"score"`
	Extra map[string]string `json:"extra,omitempty"`
}

// CategoryResult is what a single analyzer returns.
type CategoryResult struct {
	Score    float64               `json:"score"`
	Checks   map[string]CheckEntry `json:"checks"`
	Issues   []Issue               `json:"issues"`
	Details  map[string]any        `json:"details,omitempty"`
	Error    string                `json:"error,omitempty"`
	Disabled bool                  `json:"disabled,omitempty"`
}

// NewCategoryResult returns an empty result with non-nil collections.
func NewCategoryResult() CategoryResult {
	return CategoryResult{
		Checks: map[string]CheckEntry{},
		Issues: []Issue{},
	}
}

// FailedCategory is the zero-score result recorded when an analyzer fails.
func FailedCategory(err string) CategoryResult {
	r := NewCategoryResult()
	r.Error = err
	return r
}

// DisabledCategory is the placeholder recorded for a category switched off by
// configuration.
func DisabledCategory() CategoryResult {
	r := NewCategoryResult()
	r.Disabled = true
	return r
}

// Grade is the band a final score falls into.
type Grade struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

// AuditReport is the result of a single-page audit.
type AuditReport struct {
	URL          string                    `json:"url"`
	Timestamp    string                    `json:"timestamp"`
	Language     string                    `json:"language"`
	Categories   map[string]CategoryResult `json:"categories"`
	FinalScore   float64                   `json:"final_score"`
	Grade        Grade                     `json:"grade"`
	AllIssues    []Issue                   `json:"all_issues"`
	QuickWins    []Issue                   `json:"quick_wins"`
	AIActionPlan *ActionPlan               `json:"ai_action_plan"`
}

// MultiPageAuditReport extends a homepage audit with site-wide findings.
// FinalScore and Grade always mirror the homepage report.
type MultiPageAuditReport struct {
	AuditType           string              `json:"audit_type"`
	URL                 string              `json:"url"`
	Timestamp           string              `json:"timestamp"`
	Language            string              `json:"language"`
	SiteType            string              `json:"site_type"`
	SiteTypeConfidence  float64             `json:"site_type_confidence"`
	SiteCharacteristics SiteCharacteristics `json:"site_characteristics"`
	PagesAnalyzed       int                 `json:"pages_analyzed"`
	Homepage            *AuditReport        `json:"homepage"`
	AdditionalPages     []PageSelection     `json:"additional_pages"`
	SiteWideAnalysis    *HolisticResult     `json:"site_wide_analysis"`
	FinalScore          float64             `json:"final_score"`
	HolisticScore       float64             `json:"holistic_score"`
	Grade               Grade               `json:"grade"`
}

// AuditTypeMultiPage marks a MultiPageAuditReport on the wire.
const AuditTypeMultiPage = "multi-page"

// ErrorResponse is the JSON shape returned on failure. The HTTP status is
// carried by the response itself.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
