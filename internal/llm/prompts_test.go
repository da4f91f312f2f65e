package llm

import (
	"strings"
	"testing"
)

func TestRenderPromptRefine(t *testing.T) {
	got, err := RenderPrompt(PromptRefine, map[string]any{
		"Message":      "Hi there",
		"Instructions": "make it shorter",
		"MaxChars":     300,
	})
	if err != nil {
		t.Fatalf("RenderPrompt: %v", err)
	}
	for _, want := range []string{"Hi there", "make it shorter", "300 characters"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected rendered prompt to contain %q", want)
		}
	}
}

func TestRenderPromptUnknown(t *testing.T) {
	if _, err := RenderPrompt("nope", nil); err == nil {
		t.Fatalf("expected error for unknown prompt")
	}
}
