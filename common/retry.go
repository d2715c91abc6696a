package common

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryForever runs fn until it succeeds or ctx is cancelled, waiting
// interval between attempts.
func RetryForever(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		return interval, false
	})

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}
