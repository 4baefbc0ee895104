package content

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds retries of rate-limited calls. MaxAttempts counts the
// first call; the n-th retry waits BaseDelay * BackoffFactor^(n-1).
type RetryPolicy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	BackoffFactor float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second, BackoffFactor: 2}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.BackoffFactor < 1 {
		p.BackoffFactor = 1
	}
	return p
}

// Delays lists the waits between attempts.
func (p RetryPolicy) Delays() []time.Duration {
	p = p.normalized()
	out := make([]time.Duration, 0, p.MaxAttempts-1)
	d := float64(p.BaseDelay)
	for i := 1; i < p.MaxAttempts; i++ {
		out = append(out, time.Duration(d))
		d *= p.BackoffFactor
	}
	return out
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	p = p.normalized()
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = p.BackoffFactor
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Duration(float64(p.BaseDelay) * pow(p.BackoffFactor, p.MaxAttempts))
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)
}

func pow(base float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= base
	}
	return out
}

// Retrier applies a RetryPolicy. NewTimer is nil in production; tests swap in
// a timer that fires immediately. OnRetry runs before each wait.
type Retrier struct {
	Policy   RetryPolicy
	NewTimer func() backoff.Timer
	OnRetry  func(attempt int, delay time.Duration, err error)
}

// Retry runs op until it succeeds, fails with a non-rate-limit error, or the
// policy runs out of attempts. The last error is returned unchanged.
func Retry[T any](ctx context.Context, r Retrier, op func(context.Context) (T, error)) (T, error) {
	var (
		out     T
		attempt int
	)
	operation := func() error {
		attempt++
		v, err := op(ctx)
		if err == nil {
			out = v
			return nil
		}
		if IsRateLimited(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, next time.Duration) {
		if r.OnRetry != nil {
			r.OnRetry(attempt, next, err)
		}
	}
	var timer backoff.Timer
	if r.NewTimer != nil {
		timer = r.NewTimer()
	}
	if err := backoff.RetryNotifyWithTimer(operation, r.Policy.backOff(ctx), notify, timer); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
