package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return nil
}

func TestThrottle(t *testing.T) {
	t.Run("should sleep the configured delays", func(t *testing.T) {
		rec := &sleepRecorder{}
		th := NewThrottle(2*time.Second, 3*time.Second)
		th.sleep = rec.sleep

		require.NoError(t, th.WaitBeforeNext(context.Background()))
		require.NoError(t, th.WaitBetweenItems(context.Background()))

		assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, rec.calls)
	})

	t.Run("should return immediately for zero delays", func(t *testing.T) {
		rec := &sleepRecorder{}
		th := NewThrottle(0, 0)
		th.sleep = rec.sleep

		require.NoError(t, th.WaitBeforeNext(context.Background()))
		require.NoError(t, th.WaitBetweenItems(context.Background()))

		assert.Empty(t, rec.calls)
	})

	t.Run("nil throttle does not wait", func(t *testing.T) {
		var th *Throttle
		assert.NoError(t, th.WaitBeforeNext(context.Background()))
		assert.NoError(t, th.WaitBetweenItems(context.Background()))
	})

	t.Run("should stop waiting when the context is cancelled", func(t *testing.T) {
		th := NewThrottle(time.Hour, time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := th.WaitBeforeNext(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRetryPolicy_Do(t *testing.T) {
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")
	isTransient := func(err error) bool { return errors.Is(err, errTransient) }

	t.Run("should retry with linear back-off until success", func(t *testing.T) {
		rec := &sleepRecorder{}
		p := NewRetryPolicy(3, time.Second)
		p.sleep = rec.sleep

		calls := 0
		err := p.Do(context.Background(), "list", isTransient, func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.calls)
	})

	t.Run("should give up after max retries", func(t *testing.T) {
		rec := &sleepRecorder{}
		p := NewRetryPolicy(2, time.Millisecond)
		p.sleep = rec.sleep

		calls := 0
		err := p.Do(context.Background(), "list", isTransient, func() error {
			calls++
			return errTransient
		})

		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
		assert.Len(t, rec.calls, 2)
	})

	t.Run("should not retry rejected errors", func(t *testing.T) {
		rec := &sleepRecorder{}
		p := NewRetryPolicy(3, time.Millisecond)
		p.sleep = rec.sleep

		calls := 0
		err := p.Do(context.Background(), "list", isTransient, func() error {
			calls++
			return errFatal
		})

		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
		assert.Empty(t, rec.calls)
	})

	t.Run("should stop on cancelled context", func(t *testing.T) {
		p := NewRetryPolicy(3, time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Do(ctx, "list", nil, func() error { return nil })

		assert.ErrorIs(t, err, context.Canceled)
	})
}
