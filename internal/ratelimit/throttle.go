package ratelimit

import (
	"context"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/logger"
)

const (
	DefaultRequestDelay = 5000 * time.Millisecond
	DefaultBatchDelay   = 5000 * time.Millisecond
	DefaultBaseDelay    = 5000 * time.Millisecond
	DefaultMaxRetries   = 3
	DefaultBatchSize    = 1
)

// Throttle spaces outbound AI calls with fixed pauses. It does not track
// quotas or tokens; every wait is the configured delay.
type Throttle struct {
	RequestDelay time.Duration
	BatchDelay   time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewThrottle(requestDelay, batchDelay time.Duration) *Throttle {
	return &Throttle{
		RequestDelay: requestDelay,
		BatchDelay:   batchDelay,
		sleep:        Sleep,
	}
}

// WaitBeforeNext pauses before a classification request.
func (t *Throttle) WaitBeforeNext(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.wait(ctx, t.RequestDelay, "request")
}

// WaitBetweenItems pauses after one commit has been handled.
func (t *Throttle) WaitBetweenItems(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.wait(ctx, t.BatchDelay, "batch")
}

func (t *Throttle) wait(ctx context.Context, d time.Duration, kind string) error {
	if d <= 0 {
		return nil
	}
	logger.Debug(ctx, "throttling", "kind", kind, "delay_ms", d.Milliseconds())

	sleep := t.sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, d)
}

// Sleep blocks for d or until ctx is done, whichever happens first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
