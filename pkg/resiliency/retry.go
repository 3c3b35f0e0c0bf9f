package resiliency

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Try calling factory function with exponential back-off until it succeeds,
// or the passed context is cancelled.
func RetryGet[T any](ctx context.Context, b backoff.BackOff, factory func() (T, error)) (T, error) {
	var lastAttemptErr error

	retval, err := backoff.RetryNotifyWithData(
		factory,
		backoff.WithContext(b, ctx),
		func(err error, d time.Duration) {
			lastAttemptErr = err
		},
	)

	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		// Inform the caller about the timeout AND the last attempt error.
		return *new(T), errors.Join(lastAttemptErr, err)
	case err != nil:
		return *new(T), err
	default:
		return retval, nil
	}
}

// Try calling the operation with exponential back-off until the timeout is reached.
func RetryExponentialWithTimeout(ctx context.Context, timeout time.Duration, op func() error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := RetryGet(timeoutCtx, backoff.NewExponentialBackOff(), func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// Marks an error as permanent (not worth retrying).
func Permanent(err error) error {
	return backoff.Permanent(err)
}
