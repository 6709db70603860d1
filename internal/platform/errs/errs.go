package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes application errors for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// Unreachable indicates the audited page could not be fetched (HTTP 502).
	Unreachable
	// Timeout indicates the audit ran past its deadline (HTTP 504).
	Timeout
	// ParsingFailed indicates a response could not be parsed (HTTP 500).
	ParsingFailed
	// Unavailable indicates a required dependency is not configured (HTTP 503).
	Unavailable
	// NotFound indicates the requested resource does not exist (HTTP 404).
	NotFound
)

var kindNames = [...]string{
	Unknown:       "unknown",
	InvalidInput:  "invalid_input",
	Unreachable:   "unreachable",
	Timeout:       "timeout",
	ParsingFailed: "parsing_failed",
	Unavailable:   "unavailable",
	NotFound:      "not_found",
}

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the audited site
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of the first AppError in err's chain, or Unknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
