package localink

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds the resilience policy for a single provider call.
type RetryConfig struct {
	MaxAttempts int           // Total attempts, including the first
	BaseDelay   time.Duration // Rate-limit backoff unit, grows per attempt
	MaxDelay    time.Duration // Cap on the rate-limit backoff
	RetryDelay  time.Duration // Fixed delay for non-rate-limit failures
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		RetryDelay:  500 * time.Millisecond,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn under the retry policy: rate-limit rejections wait
// BaseDelay*attempt capped at MaxDelay before the next try, other retryable
// errors wait the fixed RetryDelay. The last error is surfaced once the
// attempt budget is exhausted. All waits are context-aware.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < attempts {
			delay := cfg.RetryDelay
			if IsRateLimited(err) {
				delay = cfg.BaseDelay * time.Duration(attempt)
				if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}
