package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/domain/pregnancy"
	"github.com/yungbote/bloom-backend/internal/http/response"
)

type PregnancyHandler struct {
	clk clock.Clock
}

func NewPregnancyHandler(clk clock.Clock) *PregnancyHandler {
	if clk == nil {
		clk = clock.New()
	}
	return &PregnancyHandler{clk: clk}
}

type WeekView struct {
	DueDate   string              `json:"due_date"`
	Today     string              `json:"today"`
	Week      int                 `json:"week"`
	Progress  float64             `json:"progress"`
	WeeksToGo int                 `json:"weeks_to_go"`
	Trimester int                 `json:"trimester"`
	Countdown string              `json:"countdown"`
	Milestone pregnancy.Milestone `json:"milestone"`
	Narrative string              `json:"narrative"`
}

func NewWeekView(due, today time.Time) WeekView {
	week := pregnancy.ComputeWeek(due, today)
	return WeekView{
		DueDate:   pregnancy.CalendarDay(due).Format(pregnancy.DateLayout),
		Today:     pregnancy.CalendarDay(today).Format(pregnancy.DateLayout),
		Week:      week,
		Progress:  pregnancy.Progress(week),
		WeeksToGo: pregnancy.WeeksToGo(week),
		Trimester: pregnancy.Trimester(week),
		Countdown: pregnancy.Countdown(week),
		Milestone: pregnancy.LookupMilestone(week),
		Narrative: pregnancy.LookupNarrative(week),
	}
}

// GET /api/week?due_date=YYYY-MM-DD&today=YYYY-MM-DD
func (h *PregnancyHandler) Week(c *gin.Context) {
	due, err := pregnancy.ParseDueDate(c.Query("due_date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_due_date", err)
		return
	}
	today := h.clk.Now()
	if raw := strings.TrimSpace(c.Query("today")); raw != "" {
		today, err = time.Parse(pregnancy.DateLayout, raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_today", fmt.Errorf("today %q: expected YYYY-MM-DD", raw))
			return
		}
	}
	response.RespondOK(c, NewWeekView(due, today))
}

// GET /api/milestones
func (h *PregnancyHandler) ListMilestones(c *gin.Context) {
	response.RespondOK(c, gin.H{"milestones": pregnancy.Milestones()})
}

// GET /api/milestones/:week
func (h *PregnancyHandler) GetMilestone(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_week", fmt.Errorf("week %q is not an integer", c.Param("week")))
		return
	}
	response.RespondOK(c, gin.H{
		"week":      week,
		"milestone": pregnancy.LookupMilestone(week),
		"narrative": pregnancy.LookupNarrative(week),
		"stage":     pregnancy.StageFor(week),
	})
}
