// Package requestid carries the per-request correlation ID through contexts
// so that HTTP logs, audit logs and archived reports can be joined.
package requestid

import (
	"context"
	"log/slog"
)

// Header is the HTTP header the ID is read from and echoed in.
const Header = "X-Request-ID"

const maxLen = 64

type ctxKey struct{}

// NewContext returns a context that carries the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Attr returns the ID as a log attribute, or an empty Attr (which handlers
// drop) when ctx carries no ID.
func Attr(ctx context.Context) slog.Attr {
	id := FromContext(ctx)
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Sanitize returns id when it is safe to log and echo back: at most 64
// characters of letters, digits, '-', '_' or '.'. Anything else yields "".
func Sanitize(id string) string {
	if id == "" || len(id) > maxLen {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return ""
		}
	}
	return id
}
