package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator produces a single text completion for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the model answered without text.
var ErrEmptyCompletion = errors.New("model returned no text")

// Error is a provider failure reduced to what callers branch on.
// StatusCode is 0 when the failure never produced an HTTP status.
type Error struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsQuota reports a rate or quota limit: HTTP 429, or a message naming
// the quota (some gateways answer 400/403 with RESOURCE_EXHAUSTED).
func (e *Error) IsQuota() bool {
	if e.StatusCode == 429 {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted")
}

// IsQuotaError reports whether err carries a quota failure. Errors that
// never went through Error are judged by their text alone.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.IsQuota()
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted")
}

// Message returns the human-readable part of err.
func Message(err error) string {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
