// Package scoring turns per-category results into a final score, a grade and
// a prioritized issue list.
package scoring

import (
	"fmt"
	"math"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// band is one contiguous score range; scores at Min belong to the band.
type band struct {
	Min   float64
	Grade model.Grade
}

var bands = []band{
	{Min: 90, Grade: model.Grade{Label: "EXCELLENT", Color: "green", Emoji: "🟢"}},
	{Min: 75, Grade: model.Grade{Label: "GOOD", Color: "lightgreen", Emoji: "🟡"}},
	{Min: 60, Grade: model.Grade{Label: "NEEDS IMPROVEMENT", Color: "yellow", Emoji: "🟠"}},
	{Min: 40, Grade: model.Grade{Label: "POOR", Color: "orange", Emoji: "🔴"}},
}

var criticalGrade = model.Grade{Label: "CRITICAL", Color: "red", Emoji: "⛔"}

// FinalScore computes the weighted sum of the aggregated categories, rounded
// to one decimal place.
//
// Every aggregated category must be present; a missing one is a programming
// error and panics.
func FinalScore(categories map[string]model.CategoryResult, weights Weights) float64 {
	var total float64
	for _, k := range AggregatedCategories {
		c, ok := categories[k]
		if !ok {
			panic(fmt.Sprintf("scoring: category %q missing from aggregation input", k))
		}
		total += c.Score * weights[k]
	}
	return math.Round(total*10) / 10
}

// GradeFor maps a score to its grade band.
func GradeFor(score float64) model.Grade {
	for _, b := range bands {
		if score >= b.Min {
			return b.Grade
		}
	}
	return criticalGrade
}
