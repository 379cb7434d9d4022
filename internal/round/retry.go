package round

import (
	"context"
	"time"
)

// RetryPolicy bounds how often a recoverable operation is reattempted
// and how long to pause between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Do runs fn up to MaxAttempts times, sleeping Backoff between attempts.
// Only errors accepted by retryable are retried; anything else, and the
// final retryable error, is returned as-is. A cancelled sleep returns
// the context error.
func (p RetryPolicy) Do(ctx context.Context, clock Clock, retryable func(error) bool, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		if i < attempts-1 {
			if serr := clock.Sleep(ctx, p.Backoff); serr != nil {
				return serr
			}
		}
	}
	return err
}
