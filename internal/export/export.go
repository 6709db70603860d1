// Package export renders finished audit reports as CSV and JSON downloads.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"slices"
	"strconv"

	"github.com/maciusman/seo-aiditor/internal/model"
)

// ErrNoReport is returned when the payload carries no report.
var ErrNoReport = errors.New("export: report is empty")

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Homepage extracts the homepage report from either a single-page report or
// a multi-page report.
func Homepage(raw json.RawMessage) (*model.AuditReport, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoReport
	}

	var probe struct {
		AuditType string             `json:"audit_type"`
		Homepage  *model.AuditReport `json:"homepage"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("export: decode report: %w", err)
	}
	if probe.AuditType == model.AuditTypeMultiPage && probe.Homepage != nil {
		return probe.Homepage, nil
	}

	var report model.AuditReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("export: decode report: %w", err)
	}
	return &report, nil
}

// WriteCSV writes the checklist of every category followed by the issue list.
func WriteCSV(w io.Writer, report *model.AuditReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Category", "Check", "Value", "Pass", "Score"}); err != nil {
		return err
	}
	for _, name := range categoryNames(report.Categories) {
		checks := report.Categories[name].Checks
		for _, check := range sortedKeys(checks) {
			c := checks[check]
			row := []string{name, check, c.Value, strconv.FormatBool(c.Pass), formatScore(c.Score)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	// csv.Writer has no blank-record form; an empty single field renders as
	// an empty line.
	if err := cw.Write([]string{""}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Severity", "Title", "Impact", "Description", "Fix"}); err != nil {
		return err
	}
	for _, is := range report.AllIssues {
		row := []string{string(is.Severity), is.Title, strconv.Itoa(is.Impact), is.Description, is.Fix}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the report indented for humans.
func WriteJSON(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// Filename returns a download name such as seo_audit_example.com.csv.
func Filename(reportURL, ext string) string {
	name := "report"
	if u, err := url.Parse(reportURL); err == nil && u.Host != "" {
		name = u.Host
	}
	name = unsafeFilename.ReplaceAllString(name, "_")
	return "seo_audit_" + name + "." + ext
}

// categoryNames returns the known categories in audit order, then any
// others alphabetically.
func categoryNames(categories map[string]model.CategoryResult) []string {
	names := make([]string, 0, len(categories))
	for _, name := range model.CategoryOrder {
		if _, ok := categories[name]; ok {
			names = append(names, name)
		}
	}
	for _, name := range sortedKeys(categories) {
		if !slices.Contains(model.CategoryOrder, name) {
			names = append(names, name)
		}
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
