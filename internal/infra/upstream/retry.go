package upstream

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetrySpec defines retry behavior. A spec is immutable once built and is
// shared by every call of the clients it is wired into.
type RetrySpec struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// DefaultRetrySpec retries server errors 3 times in total, 1s apart.
func DefaultRetrySpec() *RetrySpec {
	return NewRetrySpec(3, time.Second)
}

// NewRetrySpec builds a fixed-delay spec that retries server errors only.
func NewRetrySpec(maxAttempts int, delay time.Duration) *RetrySpec {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetrySpec{
		MaxAttempts: maxAttempts,
		Delay:       delay,
		Retryable:   IsServerError,
	}
}

func (s *RetrySpec) backoff() retry.Backoff {
	delay := s.Delay
	fixed := retry.BackoffFunc(func() (time.Duration, bool) {
		return delay, false
	})
	retries := 0
	if s.MaxAttempts > 1 {
		retries = s.MaxAttempts - 1
	}
	return retry.WithMaxRetries(uint64(retries), fixed)
}

// Execute runs call until it succeeds, fails with an error the spec does not
// retry, or runs out of attempts. The last error is returned as is.
// A nil spec runs call exactly once.
func Execute[T any](ctx context.Context, spec *RetrySpec, call func(ctx context.Context) (T, error)) (T, error) {
	if spec == nil {
		return call(ctx)
	}

	var result T
	err := retry.Do(ctx, spec.backoff(), func(ctx context.Context) error {
		v, err := call(ctx)
		if err == nil {
			result = v
			return nil
		}
		if spec.Retryable != nil && spec.Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
