package content

import (
	"errors"
	"fmt"

	"github.com/yungbote/bloom-backend/internal/pkg/httpx"
)

var (
	ErrRateLimited = errors.New("provider rate limited")
	ErrThrottled   = errors.New("image request throttled")
	ErrEmptyText   = errors.New("nothing to narrate")
)

// ProviderError is a non-retryable provider failure for one content kind.
type ProviderError struct {
	Kind Kind
	Err  error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s provider failed", e.Kind)
	}
	return fmt.Sprintf("%s provider failed: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ThrottledError is returned synchronously while the image cooldown runs.
type ThrottledError struct {
	RemainingSeconds int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%v: retry in %ds", ErrThrottled, e.RemainingSeconds)
}

func (e *ThrottledError) Is(target error) bool { return target == ErrThrottled }

// IsRateLimited reports whether err is the provider's "too many requests"
// signal.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	return httpx.IsRateLimitStatus(httpx.StatusOf(err))
}

func asProviderError(kind Kind, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Kind: kind, Err: err}
}
