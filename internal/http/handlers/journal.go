package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/domain/journal"
	"github.com/yungbote/bloom-backend/internal/http/response"
	"github.com/yungbote/bloom-backend/internal/session"
)

type JournalHandler struct {
	store *session.Store
}

func NewJournalHandler(store *session.Store) *JournalHandler {
	return &JournalHandler{store: store}
}

// GET /api/logs
func (h *JournalHandler) List(c *gin.Context) {
	logs := h.store.Logs()
	response.RespondOK(c, gin.H{"logs": logs, "count": len(logs)})
}

// POST /api/logs
func (h *JournalHandler) Create(c *gin.Context) {
	var req journal.EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	e, err := h.store.AppendLog(req)
	if err != nil {
		response.Error(c, "append_log_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"log": e})
}

// GET /api/calendar?month=YYYY-MM
func (h *JournalHandler) Calendar(c *gin.Context) {
	month := h.store.Today()
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := journal.ParseMonth(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_month", err)
			return
		}
		month = m
	}
	response.RespondOK(c, gin.H{"calendar": h.store.Calendar(month), "moods": moodLegend()})
}

type moodGlyph struct {
	Mood  journal.Mood `json:"mood"`
	Glyph string       `json:"glyph"`
}

func moodLegend() []moodGlyph {
	moods := journal.Moods()
	out := make([]moodGlyph, len(moods))
	for i, m := range moods {
		out[i] = moodGlyph{Mood: m, Glyph: m.Glyph()}
	}
	return out
}
