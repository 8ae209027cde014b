// Package retry runs an operation a bounded number of times, retrying only
// errors the caller classifies as transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted is wrapped by the error Do returns when every attempt failed with a retryable error.
var ErrExhausted = errors.New("retry attempts exhausted")

type Policy struct {
	// MaxAttempts counts the first call. Values below 1 are treated as 1.
	MaxAttempts int
	// Retryable decides whether an error earns another attempt. Nil retries nothing.
	Retryable func(error) bool
	// Interval between attempts. Zero retries immediately.
	Interval time.Duration
}

// Do calls fn until it succeeds, returns a non-retryable error, the context ends
// or the attempts run out. attempt starts at 1.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if p.Interval > 0 {
		b = backoff.NewConstantBackOff(p.Interval)
	}
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxAttempts-1)), ctx)

	attempt := 0
	fatal := false
	err := backoff.Retry(func() error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			fatal = true
			return backoff.Permanent(err)
		}
		return err
	}, b)

	switch {
	case err == nil:
		return nil
	case fatal:
		return err
	case ctx.Err() != nil && !errors.Is(err, ctx.Err()):
		return fmt.Errorf("%w: %w", ctx.Err(), err)
	case ctx.Err() != nil:
		return err
	default:
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
	}
}
