package scoring

import (
	"errors"
	"fmt"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// WeightAdvanced is configured alongside the aggregated categories but is not
// applied to any of them.
const WeightAdvanced = "advanced"

// AggregatedCategories are the categories that contribute to the final score.
var AggregatedCategories = []string{
	model.CategoryTechnical,
	model.CategoryOnPage,
	model.CategoryIndexing,
	model.CategoryContent,
}

var (
	errMissingWeight  = errors.New("scoring: weight missing for category")
	errNegativeWeight = errors.New("scoring: weight must not be negative")
)

// Weights maps a category key to its share of the final score.
type Weights map[string]float64

// DefaultWeights returns the stock weight table.
func DefaultWeights() Weights {
	return Weights{
		model.CategoryTechnical: 0.20,
		model.CategoryOnPage:    0.25,
		model.CategoryIndexing:  0.20,
		model.CategoryContent:   0.20,
		WeightAdvanced:          0.15,
	}
}

// Validate reports whether every aggregated category has a non-negative weight.
func (w Weights) Validate() error {
	for _, k := range AggregatedCategories {
		v, ok := w[k]
		if !ok {
			return fmt.Errorf("%w: %q", errMissingWeight, k)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s=%v", errNegativeWeight, k, v)
		}
	}
	return nil
}
