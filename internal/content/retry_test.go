package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	rec := &delayRecorder{}
	r := Retrier{Policy: DefaultRetryPolicy(), NewTimer: rec.newTimer}

	attempts := 0
	got, err := Retry(context.Background(), r, func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", fmt.Errorf("generate: %w", ErrRateLimited)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 3, attempts)

	delays := rec.Delays()
	if diff := cmp.Diff([]time.Duration{2 * time.Second, 4 * time.Second}, delays); diff != "" {
		t.Fatalf("delays mismatch (-want +got):\n%s", diff)
	}
	require.Greater(t, delays[1], delays[0])
}

func TestRetryDoesNotRetryOtherFailures(t *testing.T) {
	rec := &delayRecorder{}
	boom := errors.New("boom")
	attempts := 0
	_, err := Retry(context.Background(), Retrier{Policy: DefaultRetryPolicy(), NewTimer: rec.newTimer}, func(context.Context) (int, error) {
		attempts++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, attempts)
	require.Empty(t, rec.Delays())
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	rec := &delayRecorder{}
	var retried []int
	r := Retrier{
		Policy:   DefaultRetryPolicy(),
		NewTimer: rec.newTimer,
		OnRetry:  func(attempt int, _ time.Duration, _ error) { retried = append(retried, attempt) },
	}
	attempts := 0
	_, err := Retry(context.Background(), r, func(context.Context) (int, error) {
		attempts++
		return 0, statusErr(429)
	})
	require.Error(t, err)
	require.True(t, IsRateLimited(err))
	require.Equal(t, 3, attempts)
	require.Equal(t, []int{1, 2}, retried)
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &delayRecorder{}
	attempts := 0
	_, err := Retry(ctx, Retrier{Policy: DefaultRetryPolicy(), NewTimer: rec.newTimer}, func(context.Context) (int, error) {
		attempts++
		cancel()
		return 0, ErrRateLimited
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, attempts)
}

func TestRetryPolicyDelays(t *testing.T) {
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, DefaultRetryPolicy().Delays())
	require.Equal(t,
		[]time.Duration{time.Second, 3 * time.Second, 9 * time.Second},
		RetryPolicy{MaxAttempts: 4, BaseDelay: time.Second, BackoffFactor: 3}.Delays(),
	)
	require.Empty(t, RetryPolicy{MaxAttempts: 0}.Delays())
}

func TestRetrySingleAttemptPolicy(t *testing.T) {
	rec := &delayRecorder{}
	attempts := 0
	_, err := Retry(context.Background(), Retrier{Policy: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Second, BackoffFactor: 2}, NewTimer: rec.newTimer}, func(context.Context) (int, error) {
		attempts++
		return 0, ErrRateLimited
	})
	require.ErrorIs(t, err, ErrRateLimited)
	require.Equal(t, 1, attempts)
}
