package evaluator

import (
	"context"
	"errors"
	"strings"

	"github.com/maciusman/seo-aiditor/internal/model"
)

const (
	// MaxSelectedPages is the most pages the classifier may pick.
	MaxSelectedPages = 4

	// maxPromptLinks caps how many candidate links are listed in the prompt.
	maxPromptLinks = 50
)

var errNoPagesSelected = errors.New("classifier selected no pages")

type classification struct {
	SiteType            string                    `json:"site_type"`
	SiteTypeConfidence  float64                   `json:"site_type_confidence"`
	SiteCharacteristics model.SiteCharacteristics `json:"site_characteristics"`
	SelectedPages       []model.PageSelection     `json:"selected_pages"`
}

// ClassifySiteAndSelectPages detects the site type from the homepage and picks
// up to MaxSelectedPages representative pages from links. Failures are
// reported in the result, never as a Go error.
func (e *Evaluator) ClassifySiteAndSelectPages(ctx context.Context, url, html string, links []string, lang string) model.SiteClassification {
	if len(links) > maxPromptLinks {
		links = links[:maxPromptLinks]
	}

	text, err := e.generate(ctx, "classify_site", classifierPrompt(url, lang, PageText(html), links))
	if err != nil {
		return model.SiteClassification{Error: err.Error()}
	}

	parsed, err := DecodeEvaluatorJSON[classification](text, "site_type", "selected_pages")
	if err != nil {
		return model.SiteClassification{Error: err.Error()}
	}

	selected := make([]model.PageSelection, 0, MaxSelectedPages)
	for _, p := range parsed.SelectedPages {
		p.URL = strings.TrimSpace(p.URL)
		if p.URL == "" {
			continue
		}
		selected = append(selected, p)
		if len(selected) == MaxSelectedPages {
			break
		}
	}
	if len(selected) == 0 {
		return model.SiteClassification{Error: errNoPagesSelected.Error()}
	}

	return model.SiteClassification{
		Success:             true,
		SiteType:            parsed.SiteType,
		SiteTypeConfidence:  parsed.SiteTypeConfidence,
		SiteCharacteristics: parsed.SiteCharacteristics,
		SelectedPages:       selected,
	}
}
