package httpx

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

func IsRateLimitStatus(code int) bool {
	return code == http.StatusTooManyRequests
}

func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || IsRateLimitStatus(code) {
		return true
	}
	return code >= 500 && code <= 599
}

// StatusOf returns the HTTP status carried anywhere in err's chain, or 0.
func StatusOf(err error) int {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// SetRetryAfter writes a whole-second Retry-After header, rounding up.
func SetRetryAfter(h http.Header, d time.Duration) {
	if d <= 0 {
		return
	}
	secs := int(math.Ceil(d.Seconds()))
	h.Set("Retry-After", strconv.Itoa(secs))
}
