package promptstyle

import "strings"

const marker = "BLOOM_PROMPT_STYLE_V1"

// Apply prepends the shared voice block to a generation prompt. Prompts that
// already carry the marker are returned unchanged.
func Apply(prompt string, mode string) string {
	base := strings.TrimSpace(prompt)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou write for Bloom, a gentle pregnancy companion.")
	b.WriteString("\nKeep a warm, calm and reassuring tone.")
	b.WriteString("\nNever give a diagnosis or dosage; suggest asking a midwife or doctor instead.")
	switch mode {
	case "json":
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	case "image":
		b.WriteString("\nThe picture must be soft and non-clinical, with no text or watermarks.")
	case "speech":
		b.WriteString("\nRead slowly and softly.")
	default:
		b.WriteString("\nAnswer with the requested text only, without a preamble.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
