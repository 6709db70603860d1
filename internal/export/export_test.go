package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maciusman/seo-aiditor/internal/model"
)

func sampleReport() *model.AuditReport {
	return &model.AuditReport{
		URL:        "https://shop.example/",
		FinalScore: 64.5,
		Categories: map[string]model.CategoryResult{
			model.CategoryOnPage: {Score: 90, Checks: map[string]model.CheckEntry{
				"title": {Value: "Shop, boots & more", Pass: true, Score: 100},
				"h1":    {Value: "0 H1 tags", Pass: false, Score: 0},
			}},
			model.CategoryTechnical: {Score: 80, Checks: map[string]model.CheckEntry{
				"ssl": {Value: "HTTPS", Pass: true, Score: 100},
			}},
			"custom": {Checks: map[string]model.CheckEntry{"x": {Value: "y", Score: 12.5}}},
		},
		AllIssues: []model.Issue{
			{Severity: model.SeverityCritical, Title: "Missing H1", Impact: 9, Description: "No H1 on page", Fix: "Add one H1"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	want := strings.Join([]string{
		"Category,Check,Value,Pass,Score",
		"technical,ssl,HTTPS,true,100",
		"onpage,h1,0 H1 tags,false,0",
		`onpage,title,"Shop, boots & more",true,100`,
		"custom,x,y,false,12.5",
		"",
		"Severity,Title,Impact,Description,Fix",
		"critical,Missing H1,9,No H1 on page,Add one H1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestHomepage(t *testing.T) {
	single, err := json.Marshal(sampleReport())
	require.NoError(t, err)

	multi, err := json.Marshal(model.MultiPageAuditReport{
		AuditType: model.AuditTypeMultiPage,
		URL:       "https://shop.example/",
		Homepage:  sampleReport(),
	})
	require.NoError(t, err)

	got, err := Homepage(single)
	require.NoError(t, err)
	assert.Equal(t, 64.5, got.FinalScore)

	got, err = Homepage(multi)
	require.NoError(t, err)
	assert.Len(t, got.Categories, 3)

	_, err = Homepage(nil)
	assert.True(t, errors.Is(err, ErrNoReport))

	_, err = Homepage(json.RawMessage("null"))
	assert.True(t, errors.Is(err, ErrNoReport))

	_, err = Homepage(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "seo_audit_shop.example.csv", Filename("https://shop.example/path?q=1", "csv"))
	assert.Equal(t, "seo_audit_localhost_8080.json", Filename("http://localhost:8080", "json"))
	assert.Equal(t, "seo_audit_report.csv", Filename("", "csv"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"url": "https://a.example/?a=1&b=2"}))
	assert.Equal(t, "{\n  \"url\": \"https://a.example/?a=1&b=2\"\n}\n", buf.String())
}
