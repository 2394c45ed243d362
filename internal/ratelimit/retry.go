package ratelimit

import (
	"context"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/logger"
)

// RetryPolicy retries a failed call MaxRetries times, waiting BaseDelay*attempt
// between attempts.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetryPolicy(maxRetries int, baseDelay time.Duration) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, BaseDelay: baseDelay, sleep: Sleep}
}

// Do calls fn until it succeeds, shouldRetry rejects the error, the retries are
// spent or ctx is done. The last error from fn is returned.
func (p RetryPolicy) Do(ctx context.Context, op string, shouldRetry func(error) bool, fn func() error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || (shouldRetry != nil && !shouldRetry(err)) {
			return err
		}

		delay := p.BaseDelay * time.Duration(attempt+1)
		logger.Warn(ctx, "retrying after failure",
			"operation", op,
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"delay_ms", delay.Milliseconds(),
			"error", err)

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}
