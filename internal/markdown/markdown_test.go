package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/valpere/promptstudio/internal"
)

func sampleRun() *internal.RunResult {
	return &internal.RunResult{
		ID:           "run-1",
		OriginalIdea: "Write a *blog* about AI",
		ModelID:      "test/model",
		GeneratedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		BestID:       2,
		Variants: []internal.PromptVariant{
			{ID: 1, Style: internal.StyleConcise, Prompt: "Be brief.", Output: "Iteration 1: ok", Score: 40},
			{ID: 2, Style: internal.StyleDetailed, Prompt: "Use ```code``` fences.", Output: "Iteration 1: fine", Score: 80},
		},
		RefinedPrompt: "Refined **bold** prompt",
	}
}

func TestFromRun(t *testing.T) {
	md := string(FromRun(sampleRun()))

	for _, want := range []string{
		"# PromptStudio Report",
		"Write a \\*blog\\* about AI",
		"| 2 | Detailed ★ | 80/100 |",
		"### Prompt 1 (Concise)",
		"````\nUse ```code``` fences.\n````",
		"## Refined Prompt",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown is missing %q\n---\n%s", want, md)
		}
	}
}

func TestRunToHTML(t *testing.T) {
	out := RunToHTML(sampleRun())

	if !strings.Contains(out, "<html") {
		t.Error("expected a complete HTML page")
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "PromptStudio Report") {
		t.Error("expected the report heading")
	}
	if !strings.Contains(out, "<table>") {
		t.Error("expected the score table")
	}
	if strings.Contains(out, "<strong>bold</strong>") {
		t.Error("refined prompt markdown must stay inside a code block")
	}
}

func TestToHTML(t *testing.T) {
	out := ToHTML([]byte("# Title\n\nSome **bold** text"))
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold text, got %q", out)
	}
}
