// Package fault wraps a property fetch with bounded retries and a
// non-failing fallback. Retry wraps the fetch; Fallback wraps Retry.
package fault

import (
	"context"
	"fmt"
	"time"

	"inventory/internal/model"
)

// DefaultMaxRetries gives four attempts in total.
const DefaultMaxRetries = 3

// FetchFunc retrieves the property set of one host.
type FetchFunc func(ctx context.Context, hostname, port string) (model.PropertySet, error)

// RetryOptions configures Retry.
type RetryOptions struct {
	// MaxRetries is the number of attempts after the first one. Negative
	// values are treated as zero.
	MaxRetries int
	// Delay is slept between attempts.
	Delay time.Duration
	// RetryOn selects the errors worth another attempt. Nil retries every error.
	RetryOn func(error) bool
	// OnRetry is called before each repeated attempt.
	OnRetry func(attempt int, err error)
}

// Retry returns a FetchFunc that calls fn up to MaxRetries+1 times, stopping
// at the first success or at the first error RetryOn rejects.
func Retry(fn FetchFunc, opts RetryOptions) FetchFunc {
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return func(ctx context.Context, hostname, port string) (model.PropertySet, error) {
		var lastErr error
		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				if opts.OnRetry != nil {
					opts.OnRetry(attempt, lastErr)
				}
				if err := sleep(ctx, opts.Delay); err != nil {
					return nil, fmt.Errorf("%w: retry aborted: %w", lastErr, err)
				}
			}

			props, err := fn(ctx, hostname, port)
			if err == nil {
				return props, nil
			}
			lastErr = err
			if opts.RetryOn != nil && !opts.RetryOn(err) {
				return nil, err
			}
		}
		return nil, lastErr
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Result is what a guarded fetch hands back to its caller. Fallback marks a
// degraded, synthetic property set that must not be treated as real data.
type Result struct {
	Properties model.PropertySet
	Fallback   bool
	Reason     string
}

// Guarded is a fetch that never fails.
type Guarded func(ctx context.Context, hostname, port string) Result

// FallbackHandler turns a failed fetch into a degraded result.
type FallbackHandler func(hostname string, err error) Result

// Fallback returns a Guarded fetch that passes successes through unchanged
// and routes every failure to handler.
func Fallback(fn FetchFunc, handler FallbackHandler) Guarded {
	return func(ctx context.Context, hostname, port string) Result {
		props, err := fn(ctx, hostname, port)
		if err != nil {
			return handler(hostname, err)
		}
		return Result{Properties: props}
	}
}

// FallbackMessage is the diagnostic returned in place of real properties.
const FallbackMessage = "Unknown hostname or the system service may not be running."

// ErrorFallback returns a handler producing {"error": FallbackMessage}.
// classify labels the failure for out-of-band reporting and may be nil.
func ErrorFallback(classify func(error) string) FallbackHandler {
	return func(hostname string, err error) Result {
		reason := ""
		if classify != nil {
			reason = classify(err)
		}
		return Result{
			Properties: model.PropertySet{"error": FallbackMessage},
			Fallback:   true,
			Reason:     reason,
		}
	}
}
