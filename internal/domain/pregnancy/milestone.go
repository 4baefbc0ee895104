package pregnancy

import (
	"fmt"
	"sort"
)

type Milestone struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
	Glyph string `json:"glyph"`
}

// milestones must stay sorted by Week.
var milestones = []Milestone{
	{Week: 4, Label: "Poppy Seed", Glyph: "🌱"},
	{Week: 8, Label: "Raspberry", Glyph: "🍓"},
	{Week: 12, Label: "Lime", Glyph: "🍋"},
	{Week: 16, Label: "Avocado", Glyph: "🥑"},
	{Week: 20, Label: "Banana", Glyph: "🍌"},
	{Week: 24, Label: "Corn", Glyph: "🌽"},
	{Week: 28, Label: "Eggplant", Glyph: "🍆"},
	{Week: 32, Label: "Squash", Glyph: "🎃"},
	{Week: 36, Label: "Papaya", Glyph: "🍈"},
	{Week: 40, Label: "Watermelon", Glyph: "🍉"},
}

// Milestones returns a copy of the size table.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

// LookupMilestone picks the entry with the largest threshold <= week. Weeks
// below the first threshold resolve to the first entry.
func LookupMilestone(week int) Milestone {
	i := sort.Search(len(milestones), func(i int) bool { return milestones[i].Week > week })
	if i == 0 {
		return milestones[0]
	}
	return milestones[i-1]
}

type narrativeBand struct {
	upTo     int
	template string
}

// The last band is open ended.
var narrativeBands = []narrativeBand{
	{upTo: 4, template: "At %d weeks, a tiny cluster of cells is settling in and getting ready for the big journey ahead. Rest when you can."},
	{upTo: 12, template: "At %d weeks, your baby's heart is beating and tiny fingers and toes are forming. Their major organs are taking shape."},
	{upTo: 24, template: "At %d weeks, your baby is developing rapidly. Their senses are starting to awaken, and they might even start to recognize the sound of your voice! Keep talking and singing to your bump."},
	{upTo: MaxWeek, template: "At %d weeks, your baby is growing stronger every day, practicing breathing and gaining the weight they need. You may feel big kicks and rolls."},
}

// LookupNarrative returns the developmental description for week. Any week
// outside the table resolves to the nearest band.
func LookupNarrative(week int) string {
	for _, b := range narrativeBands {
		if week <= b.upTo {
			return fmt.Sprintf(b.template, week)
		}
	}
	last := narrativeBands[len(narrativeBands)-1]
	return fmt.Sprintf(last.template, week)
}

// Stage buckets weeks for image prompts, coarser than the size table.
type Stage string

const (
	StageEmbryo     Stage = "embryo"
	StageEarlyFetus Stage = "early_fetus"
	StageMidFetus   Stage = "mid_fetus"
	StageLateFetus  Stage = "late_fetus"
)

func StageFor(week int) Stage {
	switch {
	case week <= 8:
		return StageEmbryo
	case week <= 16:
		return StageEarlyFetus
	case week <= 28:
		return StageMidFetus
	default:
		return StageLateFetus
	}
}
