package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns.
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Retry with exponential backoff --------

// Retry retries GenerateJSON up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors are not retried. If the context is
// canceled, it stops immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next LLMClient) LLMClient {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next LLMClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateJSON(ctx, prompt, input)
		if err == nil {
			return resp, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return nil, err
		}
		last = err
		if i == r.max-1 {
			break
		}
		timer := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, last
}

// -------- Rate limiting --------

// RateLimit throttles requests with a token bucket. If rps <= 0 the limiter
// is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		var rl *rate.Limiter
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			rl = rate.NewLimiter(rate.Limit(rps), burst)
		}
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }

func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.next.GenerateJSON(ctx, prompt, input)
}

// -------- Per-call timeout --------

// Timeout bounds each call. Expiry surfaces as context.DeadlineExceeded, which
// callers treat like any other oracle failure (never a fatal abort).
func Timeout(d time.Duration) Middleware {
	return func(next LLMClient) LLMClient {
		if d <= 0 {
			return next
		}
		return &timed{next: next, d: d}
	}
}

type timed struct {
	next LLMClient
	d    time.Duration
}

func (t *timed) Name() string { return t.next.Name() }
func (t *timed) Close() error { return t.next.Close() }

func (t *timed) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GenerateJSON(ctx, prompt, input)
}

// -------- Logging --------

// WithLogging logs request size and errors. Provide a custom logger or nil to
// use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next LLMClient
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	l.log.Printf("LLM request (%s): %d bytes", OperationFrom(ctx), len(prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", OperationFrom(ctx), err)
	}
	return raw, err
}
