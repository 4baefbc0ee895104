package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/domain/pregnancy"
	"github.com/yungbote/bloom-backend/internal/http/response"
	"github.com/yungbote/bloom-backend/internal/session"
)

// ContentService is the part of *content.Orchestrator the HTTP layer uses.
type ContentService interface {
	RequestTip(ctx context.Context, week int) content.Result[string]
	RequestStory(ctx context.Context, week int, mood string) content.Result[content.Story]
	RequestImage(ctx context.Context, week int) (content.Result[content.Image], error)
	RequestAudio(ctx context.Context, text string) (content.Audio, error)
	Prefetch(ctx context.Context, week int) (content.Prefetched, error)

	TipSnapshot() content.Snapshot[string]
	StorySnapshot() content.Snapshot[content.Story]
	ImageSnapshot() content.Snapshot[content.Image]
	ImageCooldownRemaining() int
	MarkDisplayed(kind content.Kind) (content.Status, error)
}

type ContentHandler struct {
	store   *session.Store
	content ContentService
}

func NewContentHandler(store *session.Store, svc ContentService) *ContentHandler {
	return &ContentHandler{store: store, content: svc}
}

// ImageView carries the image inline since Image.Data is not serialized.
type ImageView struct {
	DataURI     string            `json:"data_uri"`
	MIMEType    string            `json:"mime_type"`
	Variation   content.Variation `json:"variation"`
	Description string            `json:"description"`
}

func newImageView(img content.Image) ImageView {
	return ImageView{
		DataURI:     img.DataURI(),
		MIMEType:    img.MIMEType,
		Variation:   img.Variation,
		Description: img.Variation.Describe(),
	}
}

type imageSlotView struct {
	content.Snapshot[content.Image]
	Value                    *ImageView `json:"value,omitempty"`
	CooldownSecondsRemaining int        `json:"cooldown_seconds_remaining"`
}

func (h *ContentHandler) imageSlot() imageSlotView {
	snap := h.content.ImageSnapshot()
	v := imageSlotView{Snapshot: snap, CooldownSecondsRemaining: h.content.ImageCooldownRemaining()}
	if snap.HasValue {
		iv := newImageView(snap.Value)
		v.Value = &iv
	}
	return v
}

// GET /api/tip
func (h *ContentHandler) GetTip(c *gin.Context) {
	response.RespondOK(c, gin.H{"tip": h.content.TipSnapshot()})
}

// POST /api/tip
func (h *ContentHandler) RequestTip(c *gin.Context) {
	week := h.store.CurrentWeek()
	res := h.content.RequestTip(c.Request.Context(), week)
	response.RespondOK(c, gin.H{"week": week, "tip": res})
}

// GET /api/story
func (h *ContentHandler) GetStory(c *gin.Context) {
	response.RespondOK(c, gin.H{"story": h.content.StorySnapshot()})
}

type storyRequest struct {
	Mood string `json:"mood" binding:"omitempty,max=32"`
}

// POST /api/story
func (h *ContentHandler) RequestStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	week := h.store.CurrentWeek()
	res := h.content.RequestStory(c.Request.Context(), week, req.Mood)
	response.RespondOK(c, gin.H{"week": week, "story": res})
}

// GET /api/image
func (h *ContentHandler) GetImage(c *gin.Context) {
	response.RespondOK(c, gin.H{"image": h.imageSlot()})
}

// POST /api/image
func (h *ContentHandler) RequestImage(c *gin.Context) {
	week := h.store.CurrentWeek()
	res, err := h.content.RequestImage(c.Request.Context(), week)
	if err != nil {
		response.Error(c, "request_image_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"week":                       week,
		"image":                      newImageView(res.Value),
		"fallback":                   res.Fallback,
		"stale":                      res.Stale,
		"generation":                 res.Generation,
		"cooldown_seconds_remaining": h.content.ImageCooldownRemaining(),
	})
}

// MarkDisplayed returns the handler for POST /api/<kind>/displayed.
func (h *ContentHandler) MarkDisplayed(kind content.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := h.content.MarkDisplayed(kind)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_kind", err)
			return
		}
		response.RespondOK(c, gin.H{"kind": kind, "status": st})
	}
}

// GET /api/dashboard
func (h *ContentHandler) Dashboard(c *gin.Context) {
	p := h.store.Profile()
	response.RespondOK(c, gin.H{
		"profile":   p,
		"milestone": pregnancy.LookupMilestone(p.CurrentWeek),
		"narrative": pregnancy.LookupNarrative(p.CurrentWeek),
		"summary":   h.store.Summary(),
		"tip":       h.content.TipSnapshot(),
		"image":     h.imageSlot(),
	})
}

// POST /api/dashboard/refresh fetches a tip and an image together. A running
// image cooldown is reported, not treated as an error.
func (h *ContentHandler) RefreshDashboard(c *gin.Context) {
	week := h.store.CurrentWeek()
	pf, err := h.content.Prefetch(c.Request.Context(), week)
	if err != nil {
		response.Error(c, "refresh_dashboard_failed", err)
		return
	}
	out := gin.H{"week": week, "tip": pf.Tip}
	if pf.Image != nil {
		out["image"] = newImageView(pf.Image.Value)
		out["image_fallback"] = pf.Image.Fallback
	}
	if pf.Throttled != nil {
		out["image_throttled"] = true
		out["retry_after_seconds"] = pf.Throttled.RemainingSeconds
	}
	response.RespondOK(c, out)
}
