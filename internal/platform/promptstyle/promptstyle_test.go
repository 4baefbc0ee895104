package promptstyle

import (
	"strings"
	"testing"
)

func TestApplyIsIdempotent(t *testing.T) {
	once := Apply("Write a tip for week 12.", "text")
	twice := Apply(once, "text")
	if once != twice {
		t.Fatalf("Apply should not stack preambles")
	}
	if !strings.HasSuffix(once, "Write a tip for week 12.") {
		t.Fatalf("prompt body must stay last: %q", once)
	}
}

func TestApplyModes(t *testing.T) {
	if got := Apply("story", "json"); !strings.Contains(got, "single JSON object") {
		t.Fatalf("json mode missing schema instruction: %q", got)
	}
	if got := Apply("baby", "image"); !strings.Contains(got, "no text or watermarks") {
		t.Fatalf("image mode missing picture instruction: %q", got)
	}
	if got := Apply("   ", "text"); got != "" {
		t.Fatalf("blank prompt should stay blank, got %q", got)
	}
}
