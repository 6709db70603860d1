package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"github.com/maciusman/seo-aiditor/internal/audit"
	"github.com/maciusman/seo-aiditor/internal/model"
)

var categoryLabels = map[string]string{
	model.CategoryTechnical: "Technical",
	model.CategoryOnPage:    "On-page",
	model.CategoryIndexing:  "Indexing",
	model.CategoryContent:   "Content",
	model.CategoryPageSpeed: "PageSpeed",
	model.CategoryAIContent: "AI content",
}

func printBanner(w io.Writer) {
	fig := figure.NewFigure("SEO AIditor", "doom", true)
	cyan := color.New(color.FgCyan)
	_, _ = cyan.Fprintln(w, fig.String())
	_, _ = cyan.Fprintln(w, strings.Repeat("=", 48))
}

func printProgress(w io.Writer, ev audit.Event) {
	_, _ = color.New(color.Faint).Fprintf(w, "[%3d%%] %s\n", ev.Percent, ev.Message)
}

// gradeColor maps a grade's color name onto a terminal color.
func gradeColor(g model.Grade) *color.Color {
	switch g.Color {
	case "green":
		return color.New(color.FgGreen, color.Bold)
	case "lightgreen":
		return color.New(color.FgHiGreen)
	case "yellow":
		return color.New(color.FgYellow)
	case "orange":
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printSummary(w io.Writer, result *audit.Result) {
	report := result.Homepage()
	bold := color.New(color.Bold)

	fmt.Fprintln(w)
	_, _ = bold.Fprintf(w, "Audit of %s\n", report.URL)
	_, _ = gradeColor(report.Grade).Fprintf(w, "Score: %.1f / 100  %s\n", report.FinalScore, report.Grade.Label)

	if mp := result.MultiPage; mp != nil {
		fmt.Fprintf(w, "Site type: %s (%d pages analyzed)\n", mp.SiteType, mp.PagesAnalyzed)
		if mp.SiteWideAnalysis != nil {
			fmt.Fprintf(w, "Site-wide score: %.1f\n", mp.HolisticScore)
		}
	}

	fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "Categories")
	for _, name := range model.CategoryOrder {
		cat, ok := report.Categories[name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", categoryLabels[name], categoryStatus(cat))
	}

	if len(report.QuickWins) > 0 {
		fmt.Fprintln(w)
		_, _ = bold.Fprintln(w, "Quick wins")
		for _, issue := range report.QuickWins {
			fmt.Fprintf(w, "  [%d] %s\n", issue.Impact, issue.Title)
		}
	}

	critical := 0
	for _, issue := range report.AllIssues {
		if issue.Severity == model.SeverityCritical {
			critical++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d issues found, %d critical\n", len(report.AllIssues), critical)

	if plan := report.AIActionPlan; plan != nil && plan.ExecutiveSummary != "" {
		fmt.Fprintln(w)
		_, _ = bold.Fprintln(w, "Summary")
		fmt.Fprintf(w, "  %s\n", plan.ExecutiveSummary)
	}
}

func categoryStatus(cat model.CategoryResult) string {
	switch {
	case cat.Disabled:
		return "disabled"
	case cat.Error != "":
		return "failed: " + cat.Error
	default:
		return fmt.Sprintf("%5.1f", cat.Score)
	}
}
