package upstream

import (
	"context"
	"time"
)

// Retry executes fn with retries, backoff, and cancellation support.
//
// fn must return nil on success. An error is retried only while
// policy.ShouldRetry allows it and attempts remain; the last error is
// returned unchanged.
func Retry(
	ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context) error,
) error {

	var attempt int
	var backoff = policy.BaseBackoff

	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return err
		}
		if policy.ShouldRetry != nil && !policy.ShouldRetry(err) {
			return err
		}

		attempt++
		if attempt > policy.MaxRetries {
			return err
		}

		delay := backoff
		if policy.JitterFn != nil {
			delay += policy.JitterFn(backoff)
		}
		if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}

		if policy.OnRetry != nil {
			policy.OnRetry(attempt, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			backoff *= 2
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
