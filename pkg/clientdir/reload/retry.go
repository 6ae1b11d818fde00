package reload

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
	"github.com/randalmurphal/clientdir/pkg/clientdir/config"
	"github.com/randalmurphal/clientdir/pkg/clientdir/source"
)

// RetryConfig configures how a failed load is retried.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// RetryableFunc optionally overrides IsRetryable.
	RetryableFunc func(error) bool
}

// DefaultRetry is the standard retry configuration.
var DefaultRetry = RetryConfig{
	MaxAttempts:    config.DefaultRetryAttempts,
	InitialBackoff: config.DefaultInitialBackoff,
	MaxBackoff:     config.DefaultMaxBackoff,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// NoRetry disables retries.
var NoRetry = RetryConfig{
	MaxAttempts: 1,
}

// RetryFromSettings converts config.RetrySettings, keeping DefaultRetry's
// factor and jitter.
func RetryFromSettings(s config.RetrySettings) RetryConfig {
	cfg := DefaultRetry
	cfg.MaxAttempts = s.Attempts
	cfg.InitialBackoff = s.InitialBackoff
	cfg.MaxBackoff = s.MaxBackoff
	return cfg
}

// IsRetryable reports whether a failed reload might succeed if repeated.
//
// Rejections of the data itself (validation failures, malformed documents)
// and cancellation are permanent. Everything else, including a file that is
// briefly missing or half-written during replacement, is treated as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var valErr *clientdir.ValidationError
	switch {
	case errors.As(err, &valErr):
		return false
	case errors.Is(err, clientdir.ErrInvalidRegistration),
		errors.Is(err, source.ErrMalformed),
		errors.Is(err, source.ErrSourceClosed),
		errors.Is(err, source.ErrUnknownScheme),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// retryFunc is notified before each backoff sleep.
type retryFunc func(err error, attempt int, backoff time.Duration)

// withRetry calls fn until it succeeds, returns a permanent error, or runs
// out of attempts. It returns the number of attempts made.
func withRetry[T any](ctx context.Context, cfg RetryConfig, onRetry retryFunc, fn func(context.Context) (T, error)) (T, int, error) {
	var zero T
	isRetryable := cfg.RetryableFunc
	if isRetryable == nil {
		isRetryable = IsRetryable
	}
	maxAttempts := max(cfg.MaxAttempts, 1)
	backoff := cfg.InitialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt - 1, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, attempt, nil
		}
		if attempt >= maxAttempts || !isRetryable(err) {
			return zero, attempt, err
		}

		sleep := calculateBackoff(backoff, cfg.Jitter)
		if onRetry != nil {
			onRetry(err, attempt, sleep)
		}
		select {
		case <-ctx.Done():
			return zero, attempt, ctx.Err()
		case <-time.After(sleep):
		}

		// Increase backoff for next attempt
		if cfg.BackoffFactor > 1 {
			backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
		}
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
}

// calculateBackoff returns the backoff duration with jitter applied.
func calculateBackoff(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}

	// base +/- (base * jitter * random)
	jitterAmount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + jitterAmount)
}
