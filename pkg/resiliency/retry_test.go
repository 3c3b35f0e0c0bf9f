package resiliency

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
)

func TestRetryGetEventuallySucceeds(t *testing.T) {
	attempts := 0
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond

	val, err := RetryGet(context.Background(), b, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", fmt.Errorf("attempt %d failed", attempts)
		}
		return "done", nil
	})

	require.NoError(t, err)
	require.Equal(t, "done", val)
	require.Equal(t, 3, attempts)
}

func TestRetryGetPermanentErrorStops(t *testing.T) {
	attempts := 0
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond

	_, err := RetryGet(context.Background(), b, func() (int, error) {
		attempts++
		return 0, Permanent(errors.New("not retryable"))
	})

	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestRetryExponentialWithTimeoutReportsLastError(t *testing.T) {
	attemptErr := errors.New("still failing")

	err := RetryExponentialWithTimeout(context.Background(), 100*time.Millisecond, func() error {
		return attemptErr
	})

	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, attemptErr)
}

func TestRunDetachedRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	RunDetached(logr.Discard(), func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("detached operation did not complete")
	}
}
