package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/http/response"
	"github.com/yungbote/bloom-backend/internal/session"
)

type ProfileHandler struct {
	store *session.Store
}

func NewProfileHandler(store *session.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	response.RespondOK(c, gin.H{"profile": h.store.Profile(), "screen": h.store.Screen()})
}

// PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req session.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.store.UpdateProfile(req)
	if err != nil {
		response.Error(c, "update_profile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

type screenRequest struct {
	Screen string `json:"screen"`
}

// PUT /api/screen
func (h *ProfileHandler) SetScreen(c *gin.Context) {
	var req screenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sc, err := session.ParseScreen(req.Screen)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_screen", err)
		return
	}
	h.store.SetScreen(sc)
	response.RespondOK(c, gin.H{"screen": sc})
}
