package chain

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Euraxluo/move-bridge/core"
	"github.com/Euraxluo/move-bridge/telemetry"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxAttempts      = 3
	defaultBaseDelaySeconds = 2
)

// RetryPolicy is the resilience budget every remote adapter call runs under:
// at most MaxAttempts tries, sleeping BaseDelaySeconds^k seconds after failed
// attempt k. The same policy applies to listen, submit and verify on every
// chain family.
type RetryPolicy struct {
	MaxAttempts      uint64
	BaseDelaySeconds uint64
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:      defaultMaxAttempts,
		BaseDelaySeconds: defaultBaseDelaySeconds,
	}
}

// PowerBackoff returns delays of base^1, base^2, ... seconds.
func PowerBackoff(base uint64) retry.Backoff {
	attempt := 0

	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++

		return time.Duration(math.Pow(float64(base), float64(attempt)) * float64(time.Second)), false
	})
}

// executeWithRetry runs operation under policy. Chain errors are retried
// until the attempt budget runs out, then the last one propagates. Any other
// failure (serialization, validation) is permanent and returned immediately.
func executeWithRetry[T any](
	ctx context.Context, policy RetryPolicy, operation func(ctx context.Context) (T, error),
) (T, error) {
	var result T

	backoff := retry.WithMaxRetries(policy.MaxAttempts-1, PowerBackoff(policy.BaseDelaySeconds))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		value, err := operation(ctx)
		if err != nil {
			var chainErr *core.ChainError
			if errors.As(err, &chainErr) {
				telemetry.UpdateAdaptersChainErrorsCounter(chainErr.ChainID)

				return retry.RetryableError(err)
			}

			return err
		}

		result = value

		return nil
	})

	return result, err
}
