package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maciusman/seo-aiditor/internal/model"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "no rows", in: sql.ErrNoRows, want: ErrNotFound},
		{name: "wrapped no rows", in: errors.Join(errors.New("query"), sql.ErrNoRows), want: ErrNotFound},
		{name: "unique violation", in: &pq.Error{Code: codeUniqueViolation, Message: "duplicate key"}, want: ErrDuplicate},
		{name: "bad uuid", in: &pq.Error{Code: codeInvalidText, Message: "invalid input syntax for type uuid"}, want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.in), tt.want)
		})
	}

	other := errors.New("connection reset")
	got := translate(other)
	assert.ErrorIs(t, got, other)
	assert.NotErrorIs(t, got, ErrNotFound)
}

// TestPostgresStore_RoundTrip runs against a live database when
// SEOAUDIT_TEST_DATABASE_URL is set.
func TestPostgresStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("SEOAUDIT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SEOAUDIT_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	report := model.AuditReport{URL: "https://shop.example/", FinalScore: 64.5}
	body, err := json.Marshal(report)
	require.NoError(t, err)

	rec := Record{
		ID:         uuid.NewString(),
		URL:        report.URL,
		AuditType:  "single-page",
		FinalScore: report.FinalScore,
		Grade:      "NEEDS IMPROVEMENT",
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Body:       body,
		Issues: []model.Issue{
			{Severity: model.SeverityCritical, Title: "Missing title", Impact: 10},
			{Severity: model.SeverityRecommendation, Title: "Thin content", Impact: 7, Fix: "Write more"},
		},
	}
	require.NoError(t, store.Save(ctx, rec))
	assert.ErrorIs(t, store.Save(ctx, rec), ErrDuplicate)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.URL, got.URL)
	assert.Equal(t, rec.FinalScore, got.FinalScore)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.Issues, got.Issues)
	assert.JSONEq(t, string(body), string(got.Body))

	_, err = store.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
