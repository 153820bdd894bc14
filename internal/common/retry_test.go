package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capling-app/capling/internal/service"
)

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{MaxAttempts: 3, Delay: time.Millisecond}

	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries retryable failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return NewDatabaseError("busy", errors.New("locked"))
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable failures return immediately", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return NewValidationError("bad input")
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, CodeValidation, ErrorCode(err))
	})

	t.Run("exhausted attempts report max retries", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return NewDatabaseError("busy", errors.New("locked"))
		}, opts)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WithRetry(ctx, func() error {
			return NewDatabaseError("busy", errors.New("locked"))
		}, service.RetryOptions{MaxAttempts: 5, Delay: time.Minute})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWithTimeout(t *testing.T) {
	t.Run("completes within deadline", func(t *testing.T) {
		err := WithTimeout(context.Background(), time.Second, "op timed out", func(_ context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("deadline overrun becomes a timeout error", func(t *testing.T) {
		err := WithTimeout(context.Background(), time.Millisecond, "op timed out", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		require.Error(t, err)
		assert.Equal(t, CodeTimeout, ErrorCode(err))
		assert.Equal(t, "op timed out", err.Error())
	})

	t.Run("other failures pass through", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTimeout(context.Background(), time.Second, "op timed out", func(_ context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
