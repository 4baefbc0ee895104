package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/bloom-backend/internal/content"
)

// apiError is a failed Gemini call with its HTTP status.
type apiError struct {
	Op         string
	StatusCode int
	Status     string
	Message    string
}

func (e *apiError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini %s: %d %s: %s", e.Op, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini %s: %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *apiError) HTTPStatusCode() int { return e.StatusCode }

// classify maps SDK errors onto the content error taxonomy. 429 and
// RESOURCE_EXHAUSTED become rate limits, everything else a ProviderError.
func classify(kind content.Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := asAPIError(err); ok {
		out := &apiError{Op: op, StatusCode: ae.Code, Status: ae.Status, Message: ae.Message}
		if strings.EqualFold(ae.Status, "RESOURCE_EXHAUSTED") {
			out.StatusCode = http.StatusTooManyRequests
		}
		if out.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", content.ErrRateLimited, out)
		}
		return &content.ProviderError{Kind: kind, Err: out}
	}
	return &content.ProviderError{Kind: kind, Err: fmt.Errorf("gemini %s: %w", op, err)}
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}
