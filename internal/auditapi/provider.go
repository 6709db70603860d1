package auditapi

import (
	"context"

	"github.com/maciusman/seo-aiditor/internal/audit"
	"github.com/maciusman/seo-aiditor/internal/storage"
)

// Auditor defines the contract for any audit engine.
type Auditor interface {
	Run(ctx context.Context, req audit.Request, sink audit.ProgressSink) (*audit.Result, error)
}

// ReportArchive stores finished reports so they can be fetched again by ID.
type ReportArchive interface {
	Save(ctx context.Context, rec storage.Record) error
	Get(ctx context.Context, id string) (*storage.Record, error)
}
