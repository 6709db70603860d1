package scoring

import (
	"slices"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	maxQuickWins      = 5
	quickWinMinImpact = 6
)

// AggregateIssues collects issues from every category in model.CategoryOrder,
// sorts them by impact (highest first, ties in encounter order) and derives
// the quick wins.
func AggregateIssues(categories map[string]model.CategoryResult) (all, quickWins []model.Issue) {
	all = []model.Issue{}
	for _, k := range model.CategoryOrder {
		if c, ok := categories[k]; ok {
			all = append(all, c.Issues...)
		}
	}

	slices.SortStableFunc(all, func(a, b model.Issue) int {
		return b.Impact - a.Impact
	})

	return all, QuickWins(all)
}

// QuickWins filters sorted issues down to non-critical ones with an impact of
// at least 6, then keeps the first five.
func QuickWins(sorted []model.Issue) []model.Issue {
	wins := []model.Issue{}
	for _, is := range sorted {
		if isQuickWin(is) {
			wins = append(wins, is)
		}
	}
	if len(wins) > maxQuickWins {
		wins = wins[:maxQuickWins]
	}
	return wins
}

func isQuickWin(is model.Issue) bool {
	if is.Impact < quickWinMinImpact {
		return false
	}
	return is.Severity == model.SeverityImportant || is.Severity == model.SeverityRecommendation
}
