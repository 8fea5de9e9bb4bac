package middleware

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/leofalp/mathagent/providers/ai"
)

// RetryConfig tunes [Retry]. Zero fields take the documented defaults.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first failure. Default 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth per attempt. Default 2.
	BackoffFactor float64

	// JitterFraction adds up to this share of the backoff as noise. Default 0.1.
	JitterFraction float64

	// RetryableFunc selects the errors worth retrying. The default matches
	// 429 and 5xx status codes in the error text.
	RetryableFunc func(error) bool
}

func defaultRetryableFunc(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, code := range []string{"429", "500", "502", "503", "504"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}
	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}
	if config.RetryableFunc == nil {
		config.RetryableFunc = defaultRetryableFunc
	}
}

// computeBackoff returns min(InitialBackoff * BackoffFactor^attempt, MaxBackoff)
// plus jitter, for a 0-indexed attempt.
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}
	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // jitter only
	return time.Duration(base + jitter)
}

// Retry retries failed sends with exponential backoff. Non-retryable errors
// are returned at once; after the last attempt the error wraps both
// [ErrRetryExhausted] and the provider error.
func Retry(config RetryConfig) Middleware {
	applyRetryDefaults(&config)

	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					if err := wait(ctx, computeBackoff(config, attempt-1)); err != nil {
						return nil, err
					}
				}

				response, err := next(ctx, request)
				if err == nil {
					return response, nil
				}
				lastErr = err

				if !config.RetryableFunc(err) {
					return nil, err
				}
			}

			return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}

// wait sleeps for d or until ctx is done, releasing the timer either way.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
