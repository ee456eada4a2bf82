// Package llm is the transport layer for the code-understanding oracle.
// Clients only perform the API call itself; cross-cutting concerns (retries,
// rate limiting, timeouts, logging) are applied via Middleware.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON reports a response that carried no usable JSON payload.
var ErrInvalidJSON = errors.New("invalid json from LLM")

type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

type ctxKeyOperation struct{}

// WithOperation tags the context with the oracle operation being performed
// ("analyze_file", "resolve_ambiguous_call", "infer_external_function").
// Middleware uses it for logging; the fake client switches on it.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, ctxKeyOperation{}, op)
}

// OperationFrom returns the operation tag, or "" when absent.
func OperationFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOperation{}).(string); ok {
		return v
	}
	return ""
}
