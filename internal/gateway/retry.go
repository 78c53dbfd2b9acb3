package gateway

import (
	"context"
	"time"

	"github.com/gitboard/gitboard/internal/domain"
)

// Policy describes how a single logical fetch is retried: how many
// attempts in total, how long each attempt may run, how long to wait
// between attempts, and which failures are worth another try.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration
	// Backoff returns the delay inserted after the given 1-based attempt.
	Backoff func(attempt int) time.Duration
	// Retryable decides whether a failed attempt may be followed by another.
	Retryable func(error) bool
}

// DefaultPolicy returns the standard policy: three attempts (one call
// plus two retries), a 10 second per-attempt timeout, and a linear
// backoff where attempt i is followed by an i second wait.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		AttemptTimeout: 10 * time.Second,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
		Retryable: domain.Retryable,
	}
}

// Do runs op under the policy. Each attempt gets its own deadline
// derived from ctx. Non-retryable failures surface immediately without
// consuming the remaining budget; on exhaustion the last failure is
// returned.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
		err := op(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !p.Retryable(err) || attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Backoff(attempt)); err != nil {
			break
		}
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
