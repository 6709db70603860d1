// Package auditapi exposes audits over HTTP.
package auditapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maciusman/seo-aiditor/internal/audit"
	"github.com/maciusman/seo-aiditor/internal/platform/errs"
	"github.com/maciusman/seo-aiditor/internal/platform/requestid"
	"github.com/maciusman/seo-aiditor/internal/storage"
)

// Outcome is a finished audit plus the ID it was archived under, if any.
type Outcome struct {
	ReportID string
	Result   *audit.Result
}

// Service runs audits through an Auditor, logs the outcome and archives
// finished reports.
type Service struct {
	auditor Auditor
	archive ReportArchive
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a Service. archive may be nil to disable archiving.
func NewService(auditor Auditor, archive ReportArchive, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{auditor: auditor, archive: archive, logger: logger, now: time.Now}
}

// Audit delegates to the auditor and logs the outcome.
func (s *Service) Audit(ctx context.Context, req audit.Request, sink audit.ProgressSink) (*Outcome, error) {
	logger := s.logger.With("url", req.URL, requestid.Attr(ctx), "multi_page", req.MultiPage)

	result, err := s.auditor.Run(ctx, req, sink)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &errs.AppError{
				Kind:    errs.Timeout,
				Message: "Audit timed out. The target site may be slow to respond.",
				Cause:   err,
			}
		}
		logger.Error("audit failed", "kind", errs.KindOf(err).String(), "error", err)
		return nil, err
	}

	out := &Outcome{Result: result}
	out.ReportID = s.archiveReport(ctx, result, logger)

	home := result.Homepage()
	logger.Info("audit complete",
		"type", result.Type(),
		"final_score", home.FinalScore,
		"grade", home.Grade.Label,
		"issues", len(home.AllIssues),
		"report_id", out.ReportID,
	)
	return out, nil
}

// archiveReport stores result and returns its ID. Failures are logged and
// leave the ID empty.
func (s *Service) archiveReport(ctx context.Context, result *audit.Result, logger *slog.Logger) string {
	if s.archive == nil {
		return ""
	}

	body, err := json.Marshal(result.Value())
	if err != nil {
		logger.Warn("archive report failed", "error", err)
		return ""
	}

	home := result.Homepage()
	rec := storage.Record{
		ID:         uuid.NewString(),
		URL:        home.URL,
		AuditType:  result.Type(),
		FinalScore: home.FinalScore,
		Grade:      home.Grade.Label,
		CreatedAt:  s.now().UTC(),
		Body:       body,
		Issues:     home.AllIssues,
	}
	if err := s.archive.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("archive report failed", "error", err)
		return ""
	}
	return rec.ID
}

// Report returns an archived report body.
func (s *Service) Report(ctx context.Context, id string) (json.RawMessage, error) {
	if s.archive == nil {
		return nil, &errs.AppError{Kind: errs.Unavailable, Message: "Report archive is not configured."}
	}
	if err := uuid.Validate(id); err != nil {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid report id.", Cause: err}
	}

	rec, err := s.archive.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &errs.AppError{Kind: errs.NotFound, Message: "Report not found.", Cause: err}
		}
		s.logger.Error("load report failed", "report_id", id, requestid.Attr(ctx), "error", err)
		return nil, err
	}
	return rec.Body, nil
}
