package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/http/response"
	"github.com/yungbote/bloom-backend/internal/platform/apierr"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
	"github.com/yungbote/bloom-backend/internal/relax"
	"github.com/yungbote/bloom-backend/internal/session"
)

var errBreathingDone = errors.New("breathing cycles complete")

type RelaxHandler struct {
	log   *logger.Logger
	store *session.Store
	clk   clock.Clock
}

func NewRelaxHandler(log *logger.Logger, store *session.Store, clk clock.Clock) *RelaxHandler {
	if log == nil {
		log = logger.Nop()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &RelaxHandler{log: log.With("handler", "RelaxHandler"), store: store, clk: clk}
}

// GET /api/relax/breathing?cycles=N streams one "step" event per second.
// With cycles > 0 the stream ends once that many full cycles have run;
// otherwise it runs until the client goes away.
func (h *RelaxHandler) Breathing(c *gin.Context) {
	cycles := 0
	if raw := c.Query("cycles"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_cycles", errors.New("cycles must be a non-negative integer"))
			return
		}
		cycles = n
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	err := relax.RunBreathing(c.Request.Context(), h.clk, func(s relax.Step) error {
		if cycles > 0 && s.Cycle >= cycles {
			c.SSEvent("done", s)
			c.Writer.Flush()
			return errBreathingDone
		}
		c.SSEvent("step", s)
		c.Writer.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, errBreathingDone) && !errors.Is(err, context.Canceled) {
		h.log.Warn("breathing stream failed", "error", err)
	}
}

// POST /api/relax/memory
func (h *RelaxHandler) NewMemory(c *gin.Context) {
	response.RespondOK(c, gin.H{"board": h.store.NewMemoryGame()})
}

// GET /api/relax/memory
func (h *RelaxHandler) GetMemory(c *gin.Context) {
	response.RespondOK(c, gin.H{"board": h.store.Memory().Board()})
}

type flipRequest struct {
	Index *int `json:"index" binding:"required"`
}

// POST /api/relax/memory/flip
func (h *RelaxHandler) Flip(c *gin.Context) {
	var req flipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, board, err := h.store.Memory().Flip(*req.Index)
	if errors.Is(err, relax.ErrCardOutOfRange) {
		err = apierr.New(http.StatusBadRequest, "invalid_card", err)
	}
	if err != nil {
		response.Error(c, "flip_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"outcome": out, "board": board})
}

// POST /api/relax/memory/settle
func (h *RelaxHandler) Settle(c *gin.Context) {
	response.RespondOK(c, gin.H{"board": h.store.Memory().Settle()})
}
