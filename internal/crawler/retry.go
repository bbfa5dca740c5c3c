package crawler

import (
	"context"
	"time"

	"fluxitech/mimatour-api/logger"
	apperrors "fluxitech/mimatour-api/pkg/errors"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds the attempts made for one network request
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Do runs fn until it succeeds, fails with a non-retryable error or the
// attempts run out. Delays grow as BaseDelay*2^n, capped at MaxDelay.
func (p RetryPolicy) Do(ctx context.Context, source string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	maxDelay := p.MaxDelay
	if maxDelay < base {
		maxDelay = base
	}

	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(maxDelay, b)
	b = retry.WithMaxRetries(uint64(attempts-1), b)

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}
		logger.ForCollector(source).Debug().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("Retryable failure")
		return retry.RetryableError(err)
	})
}
