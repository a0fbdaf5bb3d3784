// Package yabackoff provides delays for retry loops that talk to external
// services (Redis on startup, the Bot API) and a context-aware Retry helper.
//
//	policy := yabackoff.NewExponential(200*time.Millisecond, 2, 5*time.Second)
//	err := yabackoff.Retry(ctx, &policy, 5, func(ctx context.Context) error {
//	    return client.Ping(ctx).Err()
//	})
package yabackoff

import (
	"context"
	"time"
)

const (
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMultiplier      = 1.5
	DefaultMaxInterval     = 60 * time.Second
)

// Backoff produces the delay before the next attempt. Implementations are not
// safe for concurrent use.
type Backoff interface {
	// Next advances the strategy and returns the delay for this attempt.
	Next() time.Duration
	// Current returns the delay last produced by Next without advancing.
	Current() time.Duration
	// Reset puts the strategy back to its initial interval.
	Reset()
}

// Wait sleeps for b.Next() or until ctx is done, whichever comes first.
func Wait(ctx context.Context, b Backoff) error {
	timer := time.NewTimer(b.Next())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls fn until it succeeds, attempts are exhausted or ctx is done.
// The last error returned by fn is returned when attempts run out. An
// attempts value below one is treated as one.
func Retry(ctx context.Context, b Backoff, attempts int, fn func(ctx context.Context) error) error {
	attempts = max(attempts, 1)

	b.Reset()

	var err error

	for attempt := range attempts {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == attempts-1 {
			break
		}

		if waitErr := Wait(ctx, b); waitErr != nil {
			return err
		}
	}

	return err
}
