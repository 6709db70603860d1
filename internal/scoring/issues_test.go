package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maciusman/seo-aiditor/internal/model"
)

func withIssues(issues ...model.Issue) model.CategoryResult {
	r := model.NewCategoryResult()
	r.Issues = issues
	return r
}

func issue(sev model.Severity, title string, impact int) model.Issue {
	return model.Issue{Severity: sev, Title: title, Impact: impact}
}

func TestAggregateIssues_SortedAndStable(t *testing.T) {
	cats := map[string]model.CategoryResult{
		model.CategoryContent: withIssues(
			issue(model.SeverityImportant, "content-6", 6),
		),
		model.CategoryTechnical: withIssues(
			issue(model.SeverityImportant, "tech-6", 6),
			issue(model.SeverityCritical, "tech-10", 10),
		),
		model.CategoryOnPage: withIssues(
			issue(model.SeverityRecommendation, "onpage-4", 4),
			issue(model.SeverityImportant, "onpage-6", 6),
		),
		model.CategoryAIContent: withIssues(
			issue(model.SeverityRecommendation, "ai-8", 8),
		),
	}

	all, _ := AggregateIssues(cats)

	var titles []string
	for _, is := range all {
		titles = append(titles, is.Title)
	}
	assert.Equal(t, []string{"tech-10", "ai-8", "tech-6", "onpage-6", "content-6", "onpage-4"}, titles)

	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Impact, all[i].Impact)
	}
}

func TestAggregateIssues_EmptyCategories(t *testing.T) {
	all, wins := AggregateIssues(map[string]model.CategoryResult{
		model.CategoryTechnical: model.NewCategoryResult(),
	})

	assert.NotNil(t, all)
	assert.Empty(t, all)
	assert.NotNil(t, wins)
	assert.Empty(t, wins)
}

func TestQuickWins_FilterThenTruncate(t *testing.T) {
	// Six critical issues lead the list; truncating first would leave no
	// quick wins at all.
	var sorted []model.Issue
	for range 6 {
		sorted = append(sorted, issue(model.SeverityCritical, "crit", 10))
	}
	for i := range 7 {
		sorted = append(sorted, issue(model.SeverityImportant, string(rune('a'+i)), 7))
	}

	wins := QuickWins(sorted)

	assert.Len(t, wins, 5)
	for _, w := range wins {
		assert.NotEqual(t, model.SeverityCritical, w.Severity)
		assert.GreaterOrEqual(t, w.Impact, 6)
	}
	assert.Equal(t, "a", wins[0].Title)
	assert.Equal(t, "e", wins[4].Title)
}

func TestQuickWins_ImpactThreshold(t *testing.T) {
	sorted := []model.Issue{
		issue(model.SeverityRecommendation, "eight", 8),
		issue(model.SeverityImportant, "six", 6),
		issue(model.SeverityImportant, "five", 5),
		issue(model.SeverityRecommendation, "three", 3),
	}

	wins := QuickWins(sorted)

	assert.Equal(t, []model.Issue{sorted[0], sorted[1]}, wins)
}

func TestQuickWins_SubsetOfAll(t *testing.T) {
	cats := map[string]model.CategoryResult{
		model.CategoryTechnical: withIssues(
			issue(model.SeverityCritical, "t1", 10),
			issue(model.SeverityImportant, "t2", 7),
		),
		model.CategoryIndexing: withIssues(
			issue(model.SeverityImportant, "i1", 8),
			issue(model.SeverityRecommendation, "i2", 6),
			issue(model.SeverityRecommendation, "i3", 2),
		),
	}

	all, wins := AggregateIssues(cats)

	assert.LessOrEqual(t, len(wins), 5)
	for _, w := range wins {
		assert.Contains(t, all, w)
	}
}
