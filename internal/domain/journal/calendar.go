package journal

import (
	"fmt"
	"strings"
	"time"
)

const MonthLayout = "2006-01"

type CalendarDay struct {
	Day   int    `json:"day"`
	Date  string `json:"date"`
	Mood  Mood   `json:"mood,omitempty"`
	Glyph string `json:"glyph,omitempty"`
}

// Calendar is a month grid. Blanks is the number of empty cells before the
// 1st in a Sunday-first week.
type Calendar struct {
	Month  string        `json:"month"`
	Title  string        `json:"title"`
	Blanks int           `json:"blanks"`
	Days   []CalendarDay `json:"days"`
}

func ParseMonth(raw string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("month %q: expected YYYY-MM: %w", raw, err)
	}
	return t, nil
}

// BuildCalendar lays out month (any instant inside it) and marks each day
// with the mood of the newest entry created that day.
func BuildCalendar(month time.Time, newestFirst []Entry) Calendar {
	y, m, _ := month.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	byDate := make(map[string]Mood, len(newestFirst))
	for _, e := range newestFirst {
		key := e.CreatedAt.Format("2006-01-02")
		if _, seen := byDate[key]; seen {
			continue
		}
		byDate[key] = e.Mood
	}

	days := make([]CalendarDay, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		cell := CalendarDay{Day: d, Date: date}
		if mood, ok := byDate[date]; ok {
			cell.Mood = mood
			cell.Glyph = mood.Glyph()
		}
		days = append(days, cell)
	}

	return Calendar{
		Month:  first.Format(MonthLayout),
		Title:  first.Format("January 2006"),
		Blanks: int(first.Weekday()),
		Days:   days,
	}
}
