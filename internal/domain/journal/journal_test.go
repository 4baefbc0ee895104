package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	ok := EntryInput{WaterIntake: 8, SleepHours: 7.5, Mood: MoodCalm, Notes: "felt a kick"}
	require.NoError(t, ValidateInput(ok))

	cases := []struct {
		name  string
		input EntryInput
		field string
	}{
		{name: "negative_water", input: EntryInput{WaterIntake: -1, Mood: MoodHappy}, field: "WaterIntake"},
		{name: "too_much_water", input: EntryInput{WaterIntake: 16, Mood: MoodHappy}, field: "WaterIntake"},
		{name: "too_much_sleep", input: EntryInput{SleepHours: 15.5, Mood: MoodHappy}, field: "SleepHours"},
		{name: "unknown_mood", input: EntryInput{Mood: "grumpy"}, field: "Mood"},
		{name: "missing_mood", input: EntryInput{}, field: "Mood"},
		{name: "long_notes", input: EntryInput{Mood: MoodHappy, Notes: strings.Repeat("a", 2001)}, field: "Notes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInput(tc.input)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Error(), tc.field)
		})
	}
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	require.False(t, empty.HasEntry)
	require.Equal(t, MoodHappy, empty.Mood)
	require.Zero(t, empty.WaterIntake)

	entries := []Entry{
		{ID: "b", WaterIntake: 6, SleepHours: 8, Mood: MoodTired},
		{ID: "a", WaterIntake: 2, SleepHours: 5, Mood: MoodCalm},
	}
	got := Summarize(entries)
	require.True(t, got.HasEntry)
	require.Equal(t, 6, got.WaterIntake)
	require.Equal(t, MoodTired, got.Mood)
	require.Equal(t, "😴", got.Glyph)
}

func TestBuildCalendar(t *testing.T) {
	month, err := ParseMonth("2026-10")
	require.NoError(t, err)

	entries := []Entry{
		{CreatedAt: time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC), Mood: MoodExcited},
		{CreatedAt: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC), Mood: MoodNauseous},
		{CreatedAt: time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC), Mood: MoodCalm},
		{CreatedAt: time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC), Mood: MoodTired},
	}
	cal := BuildCalendar(month, entries)

	require.Equal(t, "2026-10", cal.Month)
	require.Equal(t, "October 2026", cal.Title)
	// October 1st 2026 is a Thursday.
	require.Equal(t, 4, cal.Blanks)
	require.Len(t, cal.Days, 31)
	require.Equal(t, MoodExcited, cal.Days[14].Mood)
	require.Equal(t, MoodCalm, cal.Days[2].Mood)
	require.Empty(t, cal.Days[0].Mood)
}

func TestBuildCalendarLeapFebruary(t *testing.T) {
	cal := BuildCalendar(time.Date(2028, 2, 10, 0, 0, 0, 0, time.UTC), nil)
	require.Len(t, cal.Days, 29)
}

func TestParseMonthRejectsGarbage(t *testing.T) {
	_, err := ParseMonth("October")
	require.Error(t, err)
}
