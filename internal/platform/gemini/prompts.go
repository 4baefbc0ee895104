package gemini

import (
	"fmt"

	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/platform/promptstyle"
)

func tipPrompt(week int) string {
	return promptstyle.Apply(
		fmt.Sprintf("Give a single, gentle pregnancy tip for week %d. Short and sweet.", week),
		"text",
	)
}

func storyPrompt(week int, mood string) string {
	return promptstyle.Apply(
		fmt.Sprintf("Write a short, heartwarming 1-minute story for a pregnant mother who is at week %d and feeling %s. "+
			"The story should be soothing and end with a positive affirmation.", week, mood),
		"json",
	)
}

func imagePrompt(week int, v content.Variation) string {
	subject := v.Subject
	if subject == "" {
		subject = "a baby in the womb"
	}
	return promptstyle.Apply(
		fmt.Sprintf("A beautiful illustration of %s at %d weeks gestation, %s. %s Peaceful atmosphere, high detail.",
			subject, week, v.Scene, v.Describe()),
		"image",
	)
}

func speechPrompt(text string) string {
	return "Read this bedtime story gently and warmly: " + text
}
