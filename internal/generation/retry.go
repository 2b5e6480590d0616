package generation

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls how transient failures are retried.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it doubles on each retry.
	BaseDelay time.Duration
	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration
}

// Retry runs op until it succeeds, returns an error that is not
// ErrTransientFailure, runs out of retries, or ctx is done.
func Retry[T any](ctx context.Context, policy RetryPolicy, log *slog.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if log == nil {
		log = slog.Default()
	}

	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrTransientFailure) || attempt >= policy.MaxRetries {
			return zero, err
		}

		delay := backoff(policy, attempt)
		log.Warn("transient generation failure, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", policy.MaxRetries),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

// backoff returns BaseDelay*2^attempt plus up to 25% jitter, capped at MaxDelay.
func backoff(policy RetryPolicy, attempt int) time.Duration {
	d := policy.BaseDelay << attempt
	if d <= 0 {
		return 0
	}
	if policy.MaxDelay > 0 && d > policy.MaxDelay {
		d = policy.MaxDelay
	}
	if jitter := int64(d / 4); jitter > 0 {
		d += time.Duration(rand.Int64N(jitter))
	}
	return d
}
