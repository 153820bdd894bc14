package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/capling-app/capling/internal/service"
)

// ErrMaxRetries indicates that all retry attempts have been exhausted.
var ErrMaxRetries = errors.New("max retries exceeded")

// WithRetry executes an idempotent operation with bounded attempts and linear
// backoff (delay x attempt). Non-retryable failures are returned immediately.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, opts.MaxAttempts, lastErr)
		}

		delay := opts.Delay * time.Duration(attempt)
		slog.Warn("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// WithTimeout runs operation under a deadline. A deadline overrun is reported
// as a timeout error rather than a bare context error.
func WithTimeout(ctx context.Context, timeout time.Duration, message string, operation func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := operation(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(message)
	}
	return err
}
