// Package pregnancy derives the gestational week from a due date and maps
// weeks to size milestones and narrative text. Everything here is pure.
package pregnancy

import (
	"fmt"
	"strings"
	"time"
)

const (
	GestationDays  = 280
	GestationWeeks = 40

	MinWeek = 1
	MaxWeek = 42

	DateLayout = "2006-01-02"
)

// ComputeWeek returns the current gestational week for dueDate as seen on
// today, clamped to [MinWeek, MaxWeek].
//
// Rounding: days remaining are rounded up (ceil) and weeks remaining are
// floored. Both dates are reduced to their calendar day first, so the day
// difference is always whole and ceil only matters for callers that pass
// instants; floor is the mathematical floor for overdue (negative) values.
func ComputeWeek(dueDate, today time.Time) int {
	daysRemaining := daysBetween(today, dueDate)
	weeksRemaining := floorDiv(daysRemaining, 7)
	return clampWeek(GestationWeeks - weeksRemaining)
}

// Progress is the share of the 40-week window covered by week, in percent,
// capped at 100.
func Progress(week int) float64 {
	p := float64(week) / float64(GestationWeeks) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// WeeksToGo is never negative; overdue pregnancies report 0.
func WeeksToGo(week int) int {
	if week >= GestationWeeks {
		return 0
	}
	return GestationWeeks - week
}

func Trimester(week int) int {
	switch {
	case week <= 13:
		return 1
	case week <= 27:
		return 2
	default:
		return 3
	}
}

// Countdown is the dashboard line under the progress bar.
func Countdown(week int) string {
	if week >= GestationWeeks {
		return "Baby is coming soon!"
	}
	return fmt.Sprintf("Almost there! %d weeks to go.", WeeksToGo(week))
}

func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("due date required")
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("due date %q: expected YYYY-MM-DD: %w", raw, err)
	}
	return t, nil
}

// CalendarDay drops the clock and zone, keeping the wall-clock date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	diff := CalendarDay(to).Sub(CalendarDay(from))
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampWeek(w int) int {
	if w < MinWeek {
		return MinWeek
	}
	if w > MaxWeek {
		return MaxWeek
	}
	return w
}
