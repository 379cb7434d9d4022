package round

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func alwaysRetry(err error) bool { return errors.Is(err, errTransient) }

func TestRetryStopsOnFirstSuccess(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	err := RetryPolicy{MaxAttempts: 3, Backoff: time.Second}.Do(
		context.Background(), clock, alwaysRetry,
		func() error { calls++; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clock.sleeps)
}

func TestRetryBacksOffBetweenAttempts(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	err := RetryPolicy{MaxAttempts: 3, Backoff: time.Second}.Do(
		context.Background(), clock, alwaysRetry,
		func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.sleeps)
}

func TestRetryReturnsLastErrorWhenExhausted(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	err := RetryPolicy{MaxAttempts: 2, Backoff: time.Second}.Do(
		context.Background(), clock, alwaysRetry,
		func() error { calls++; return errTransient },
	)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
	assert.Len(t, clock.sleeps, 1, "no sleep after the final attempt")
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	clock := newFakeClock()
	permanent := errors.New("permanent")
	calls := 0
	err := RetryPolicy{MaxAttempts: 5, Backoff: time.Second}.Do(
		context.Background(), clock, alwaysRetry,
		func() error { calls++; return permanent },
	)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clock.sleeps)
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := newFakeClock()
	clock.cancelAfter = 1
	clock.cancel = cancel

	err := RetryPolicy{MaxAttempts: 3, Backoff: time.Second}.Do(
		ctx, clock, alwaysRetry,
		func() error { return errTransient },
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestZeroValuePolicyRunsOnce(t *testing.T) {
	calls := 0
	err := RetryPolicy{}.Do(context.Background(), newFakeClock(), alwaysRetry,
		func() error { calls++; return errTransient })
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}
