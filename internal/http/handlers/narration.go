package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/audio"
	"github.com/yungbote/bloom-backend/internal/http/response"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

type NarrationHandler struct {
	log     *logger.Logger
	content ContentService
	deck    *audio.Deck
}

func NewNarrationHandler(log *logger.Logger, svc ContentService, deck *audio.Deck) *NarrationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &NarrationHandler{log: log.With("handler", "NarrationHandler"), content: svc, deck: deck}
}

type narrationRequest struct {
	Text string `json:"text" binding:"omitempty,max=8000"`
}

var errNothingToNarrate = errors.New("no text given and no story to narrate")

// POST /api/narration synthesizes text (or the current story) and streams it
// as WAV. Starting a new narration ends the previous stream.
func (h *NarrationHandler) Play(c *gin.Context) {
	var req narrationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		if snap := h.content.StorySnapshot(); snap.HasValue {
			text = strings.TrimSpace(snap.Value.Title + ". " + snap.Value.Content)
		}
	}
	if text == "" {
		response.RespondError(c, http.StatusBadRequest, "empty_text", errNothingToNarrate)
		return
	}

	a, err := h.content.RequestAudio(c.Request.Context(), text)
	if err != nil {
		response.Error(c, "narration_failed", err)
		return
	}

	pb := h.deck.Play(c.Request.Context(), audio.Clip{PCM: a.PCM, SampleRate: a.SampleRate, Channels: a.Channels})
	defer h.deck.Finish(pb)

	c.Header("Content-Type", "audio/wav")
	c.Header("Content-Length", strconv.Itoa(audio.WAVSize(len(a.PCM))))
	c.Header("X-Playback-Id", pb.ID)
	c.Status(http.StatusOK)
	if _, err := pb.WriteTo(c.Writer); err != nil {
		h.log.Debug("narration stream ended early", "playback_id", pb.ID, "reason", string(pb.Reason()), "error", err)
	}
}

// GET /api/narration
func (h *NarrationHandler) Current(c *gin.Context) {
	pb := h.deck.Current()
	if pb == nil {
		response.RespondOK(c, gin.H{"playing": false})
		return
	}
	response.RespondOK(c, gin.H{
		"playing":     true,
		"playback_id": pb.ID,
		"duration_ms": pb.Clip.Duration().Milliseconds(),
	})
}

// DELETE /api/narration
func (h *NarrationHandler) Stop(c *gin.Context) {
	response.RespondOK(c, gin.H{"stopped": h.deck.Stop()})
}
