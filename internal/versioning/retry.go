package versioning

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

// DefaultAttempts bounds Retry when attempts is not positive.
const DefaultAttempts = 3

// Retry re-reads the current document, re-applies the caller's intent and resubmits it,
// repeating only while the update reports a concurrency conflict.
// The last conflict is returned once attempts are exhausted.
func Retry[T any](
	ctx context.Context,
	attempts int,
	load func(context.Context) (*T, error),
	apply func(*T) error,
	update func(context.Context, *T) (*T, error),
) (*T, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := apply(current); err != nil {
			return nil, err
		}

		updated, err := update(ctx, current)
		if err == nil {
			return updated, nil
		}
		if !domain.IsDomainError(err, domain.ErrCodeConcurrency) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
