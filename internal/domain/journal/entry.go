// Package journal holds the daily activity log entry type, its validation
// rules, and the month views built from it.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodTired    Mood = "tired"
	MoodCalm     Mood = "calm"
	MoodExcited  Mood = "excited"
	MoodNauseous Mood = "nauseous"
)

var moodGlyphs = map[Mood]string{
	MoodHappy:    "😊",
	MoodTired:    "😴",
	MoodCalm:     "🧘",
	MoodExcited:  "🤩",
	MoodNauseous: "🤢",
}

func (m Mood) Valid() bool {
	_, ok := moodGlyphs[m]
	return ok
}

// Glyph is empty for unknown moods.
func (m Mood) Glyph() string { return moodGlyphs[m] }

func Moods() []Mood {
	return []Mood{MoodHappy, MoodTired, MoodCalm, MoodExcited, MoodNauseous}
}

// Entry is immutable once created.
type Entry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	WaterIntake int       `json:"water_intake"`
	SleepHours  float64   `json:"sleep_hours"`
	Mood        Mood      `json:"mood"`
	Notes       string    `json:"notes"`
}

// EntryInput is what the log form submits; id and timestamp are assigned on
// append.
type EntryInput struct {
	WaterIntake int     `json:"water_intake" validate:"gte=0,lte=15"`
	SleepHours  float64 `json:"sleep_hours" validate:"gte=0,lte=15"`
	Mood        Mood    `json:"mood" validate:"required,oneof=happy tired calm excited nauseous"`
	Notes       string  `json:"notes" validate:"max=2000"`
}

var validate = validator.New()

// ValidationError flattens validator field errors into one message.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

// ValidateInput checks ranges and the mood enum.
func ValidateInput(in EntryInput) error {
	return validateStruct(in)
}

// Validate runs the validator on any struct tagged with validate rules.
func Validate(v any) error {
	return validateStruct(v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return out
}

// Summary is the quick-stats card: the newest entry or zero values with a
// happy mood when nothing has been logged yet.
type Summary struct {
	WaterIntake int     `json:"water_intake"`
	SleepHours  float64 `json:"sleep_hours"`
	Mood        Mood    `json:"mood"`
	Glyph       string  `json:"glyph"`
	HasEntry    bool    `json:"has_entry"`
}

func Summarize(newestFirst []Entry) Summary {
	if len(newestFirst) == 0 {
		return Summary{Mood: MoodHappy, Glyph: MoodHappy.Glyph()}
	}
	e := newestFirst[0]
	return Summary{
		WaterIntake: e.WaterIntake,
		SleepHours:  e.SleepHours,
		Mood:        e.Mood,
		Glyph:       e.Mood.Glyph(),
		HasEntry:    true,
	}
}
