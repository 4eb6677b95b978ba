// Package retry runs an operation again with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/creative-studio/internal/logging"
)

// Config configures retry behavior
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Retryable reports whether err is worth another attempt. nil retries everything.
	Retryable func(err error) bool
}

// DefaultConfig returns the backoff used for provider polling.
// Pattern: 1s, 2s, 4s, 8s, max 30s
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Result contains information about the retry operation
type Result struct {
	Attempts      int           `json:"attempts"`
	Success       bool          `json:"success"`
	TotalDuration time.Duration `json:"totalDuration"`
	LastError     error         `json:"-"`
}

// Func is a function that can be retried. attempt starts at 1.
type Func func(ctx context.Context, attempt int) error

// WithExponentialBackoff executes fn until it succeeds, fails permanently,
// runs out of attempts or ctx ends.
func WithExponentialBackoff(ctx context.Context, config *Config, fn Func) *Result {
	logger := logging.FromContext(ctx)
	start := time.Now()
	result := &Result{}

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		result.Attempts = attempt

		err := fn(ctx, attempt)
		if err == nil {
			result.Success = true
			result.LastError = nil
			result.TotalDuration = time.Since(start)
			if attempt > 1 {
				logger.WithFields(map[string]interface{}{
					"attempts":      attempt,
					"totalDuration": result.TotalDuration.String(),
				}).Info("Operation succeeded after retry")
			}
			return result
		}
		result.LastError = err

		if config.Retryable != nil && !config.Retryable(err) {
			logger.WithError(err).Debug("Operation failed with a permanent error")
			break
		}
		if attempt >= config.MaxAttempts {
			logger.WithFields(map[string]interface{}{
				"attempts": attempt,
				"error":    err.Error(),
			}).Error("Operation failed after max retry attempts")
			break
		}

		delay := Delay(config, attempt)
		logger.WithFields(map[string]interface{}{
			"attempt":     attempt,
			"maxAttempts": config.MaxAttempts,
			"delay":       delay.String(),
			"error":       err.Error(),
		}).Warn("Operation failed, retrying with exponential backoff")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.WithError(ctx.Err()).Warn("Retry cancelled during backoff")
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(start)
			return result
		}
	}

	result.TotalDuration = time.Since(start)
	return result
}

// Delay returns the wait before the attempt following attempt
func Delay(config *Config, attempt int) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}

// Do is WithExponentialBackoff returning an error
func Do(ctx context.Context, config *Config, fn Func) error {
	result := WithExponentialBackoff(ctx, config, fn)
	if !result.Success {
		return fmt.Errorf("operation failed after %d attempts: %w", result.Attempts, result.LastError)
	}
	return nil
}
