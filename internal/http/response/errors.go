package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/domain/journal"
	"github.com/yungbote/bloom-backend/internal/pkg/httpx"
	"github.com/yungbote/bloom-backend/internal/platform/apierr"
)

// Error maps a domain error onto a status and the error envelope. code is
// used for errors that carry no code of their own.
func Error(c *gin.Context, code string, err error) {
	var (
		ae   *apierr.Error
		te   *content.ThrottledError
		verr *journal.ValidationError
		pe   *content.ProviderError
	)
	switch {
	case errors.As(err, &ae):
		RespondError(c, ae.Status, ae.Code, ae.Err)
	case errors.As(err, &te):
		httpx.SetRetryAfter(c.Writer.Header(), time.Duration(te.RemainingSeconds)*time.Second)
		c.JSON(http.StatusConflict, ErrorEnvelope{Error: APIError{
			Message:           te.Error(),
			Code:              "image_throttled",
			RetryAfterSeconds: te.RemainingSeconds,
		}})
	case errors.As(err, &verr):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, content.ErrEmptyText):
		RespondError(c, http.StatusBadRequest, "empty_text", err)
	case content.IsRateLimited(err):
		RespondError(c, http.StatusBadGateway, "provider_rate_limited", err)
	case errors.As(err, &pe):
		RespondError(c, http.StatusBadGateway, "provider_failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
