package evaluator

import (
	"context"
	"log/slog"
)

// Evaluator runs the structured evaluation prompts on top of a Generator.
type Evaluator struct {
	gen    Generator
	logger *slog.Logger
}

// New returns an Evaluator backed by gen. A nil gen yields an evaluator whose
// every call fails with ErrUnavailable.
func New(gen Generator, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{gen: gen, logger: logger}
}

// WithAPIKey returns an Evaluator that authenticates with key when the
// underlying generator is a *Client. Other generators are returned as is.
func (e *Evaluator) WithAPIKey(key string) *Evaluator {
	c, ok := e.gen.(*Client)
	if !ok || key == "" {
		return e
	}
	return &Evaluator{gen: c.WithAPIKey(key), logger: e.logger}
}

// Available reports whether calls can be made at all.
func (e *Evaluator) Available() bool {
	if e == nil || e.gen == nil {
		return false
	}
	if c, ok := e.gen.(*Client); ok {
		return c.Available()
	}
	return true
}

func (e *Evaluator) generate(ctx context.Context, op, prompt string) (string, error) {
	if !e.Available() {
		return "", ErrUnavailable
	}
	text, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		e.logger.WarnContext(ctx, "evaluator call failed", "operation", op, "error", err)
		return "", err
	}
	return text, nil
}
