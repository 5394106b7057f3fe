package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/valpere/promptstudio/internal/llm"
	"github.com/valpere/promptstudio/internal/segmenter"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCreativityModifier(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "clear and straightforward"},
		{3, "clear and straightforward"},
		{4, "clear and straightforward"},
		{5, "moderately creative"},
		{7, "moderately creative"},
		{8, "highly creative and innovative"},
		{10, "highly creative and innovative"},
	}

	for _, tt := range tests {
		if got := CreativityModifier(tt.level); got != tt.want {
			t.Errorf("CreativityModifier(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestBuildMetaPrompt(t *testing.T) {
	idea := "Write a blog about AI trends"

	high := BuildMetaPrompt(idea, 8)
	if !strings.Contains(high, "highly creative and innovative") {
		t.Error("level 8 meta-request must ask for highly creative and innovative prompts")
	}
	low := BuildMetaPrompt(idea, 3)
	if !strings.Contains(low, "clear and straightforward") {
		t.Error("level 3 meta-request must ask for clear and straightforward prompts")
	}

	if strings.Count(high, "'"+idea+"'") < 2 {
		t.Error("expected the idea to be quoted in the intro and the closing line")
	}
	for _, marker := range []string{"**Concise**:", "**Detailed**:", "**Structured**:", "**Creative**:"} {
		if !strings.Contains(high, marker) {
			t.Errorf("meta-request is missing marker %s", marker)
		}
	}
}

func TestGenerator_Generate(t *testing.T) {
	var gotModel, gotPrompt string
	client := llm.ClientFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		gotModel, gotPrompt = modelID, prompt
		return "1. **Concise**: A\n2. **Detailed**: B\n3. **Structured**: C\n4. **Creative**: D", nil
	})

	g := New(client, "gen/model", discard)
	variants, err := g.Generate(context.Background(), "Tell a story about space", 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotModel != "gen/model" {
		t.Errorf("expected generation model, got %q", gotModel)
	}
	if !strings.Contains(gotPrompt, "Tell a story about space") {
		t.Error("meta-request does not embed the idea")
	}
	if len(variants) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(variants))
	}
	if variants[3].Prompt != "D" {
		t.Errorf("expected creative prompt 'D', got %q", variants[3].Prompt)
	}
}

func TestGenerator_Generate_Unparseable(t *testing.T) {
	client := llm.ClientFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		return "Sorry, I can't do that.", nil
	})

	variants, err := New(client, "m", discard).Generate(context.Background(), "idea", 5)
	if err != nil {
		t.Fatalf("parse failures must not be errors: %v", err)
	}
	for _, v := range variants {
		if !segmenter.IsSentinel(v.Style, v.Prompt) {
			t.Errorf("expected sentinel for %s, got %q", v.Style, v.Prompt)
		}
	}
}

func TestGenerator_Generate_ModelError(t *testing.T) {
	boom := errors.New("unauthorized")
	client := llm.ClientFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		return "", boom
	})

	_, err := New(client, "m", discard).Generate(context.Background(), "idea", 5)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}
