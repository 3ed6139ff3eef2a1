package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func noJitter(time.Duration) time.Duration { return 0 }

func TestRetry(t *testing.T) {
	t.Run("success_on_first_attempt", func(t *testing.T) {
		cfg := RetryPolicy{
			MaxRetries:  3,
			BaseBackoff: 10 * time.Millisecond,
			MaxBackoff:  100 * time.Millisecond,
			JitterFn:    noJitter,
		}

		err := Retry(context.Background(), cfg, func(context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("success_after_retry", func(t *testing.T) {
		attempts := 0
		var retried []int

		cfg := RetryPolicy{
			MaxRetries:  3,
			BaseBackoff: 1 * time.Millisecond,
			MaxBackoff:  10 * time.Millisecond,
			JitterFn:    noJitter,
			OnRetry: func(attempt int, err error) {
				retried = append(retried, attempt)
			},
		}

		err := Retry(context.Background(), cfg, func(context.Context) error {
			attempts++
			if attempts < 2 {
				return errors.New("failed")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, []int{1}, retried)
	})

	t.Run("exhaust_retries", func(t *testing.T) {
		attempts := 0

		cfg := RetryPolicy{
			MaxRetries:  2,
			BaseBackoff: 1 * time.Millisecond,
			MaxBackoff:  5 * time.Millisecond,
			JitterFn:    noJitter,
		}

		err := Retry(context.Background(), cfg, func(context.Context) error {
			attempts++
			return errors.New("failed")
		})
		assert.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("non_retryable_error_stops_immediately", func(t *testing.T) {
		attempts := 0
		permanent := errors.New("bad request")

		cfg := RetryPolicy{
			MaxRetries:  5,
			BaseBackoff: 1 * time.Millisecond,
			JitterFn:    noJitter,
			ShouldRetry: func(err error) bool { return !errors.Is(err, permanent) },
		}

		err := Retry(context.Background(), cfg, func(context.Context) error {
			attempts++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, attempts)
	})

	t.Run("context_cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cfg := RetryPolicy{
			MaxRetries:  5,
			BaseBackoff: 10 * time.Millisecond,
			MaxBackoff:  100 * time.Millisecond,
			JitterFn:    noJitter,
		}

		attempts := 0
		err := Retry(ctx, cfg, func(ctx context.Context) error {
			attempts++
			return ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled_during_backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		cfg := RetryPolicy{
			MaxRetries:  5,
			BaseBackoff: time.Second,
			MaxBackoff:  time.Second,
			JitterFn:    noJitter,
			OnRetry:     func(int, error) { cancel() },
		}

		err := Retry(ctx, cfg, func(context.Context) error {
			return errors.New("failed")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("max_backoff_cap", func(t *testing.T) {
		attempts := 0

		cfg := RetryPolicy{
			MaxRetries:  3,
			BaseBackoff: 50 * time.Millisecond,
			MaxBackoff:  60 * time.Millisecond,
			JitterFn:    noJitter,
		}
		start := time.Now()

		_ = Retry(context.Background(), cfg, func(context.Context) error {
			attempts++
			return errors.New("failed")
		})

		elapsed := time.Since(start)
		assert.Greater(t, elapsed, cfg.BaseBackoff, "expected backoff to be greater than base backoff")
		assert.Less(t, elapsed, time.Second, "expected backoff to be capped")
		assert.Equal(t, 4, attempts, "expected 4 attempts")
	})
}
