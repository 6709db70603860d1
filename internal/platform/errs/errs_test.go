package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	withCause := &AppError{Kind: Unreachable, Message: "Cannot fetch page", Cause: errors.New("dial tcp: refused")}
	if got := withCause.Error(); got != "Cannot fetch page: dial tcp: refused" {
		t.Errorf("Error() = %q", got)
	}

	bare := &AppError{Kind: InvalidInput, Message: "Invalid URL"}
	if got := bare.Error(); got != "Invalid URL" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("run: %w", &AppError{Kind: Timeout, Message: "slow", Cause: cause})

	if got := KindOf(wrapped); got != Timeout {
		t.Errorf("KindOf(wrapped) = %v, want timeout", got)
	}
	if got := KindOf(cause); got != Unknown {
		t.Errorf("KindOf(plain) = %v, want unknown", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause must stay reachable through Unwrap")
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		Unknown:      "unknown",
		InvalidInput: "invalid_input",
		NotFound:     "not_found",
		Kind(99):     "unknown",
		Kind(-1):     "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
