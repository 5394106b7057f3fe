// Package generator asks the model for the four styled prompt variants of a
// rough idea and segments the answer.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valpere/promptstudio/internal"
	"github.com/valpere/promptstudio/internal/llm"
	"github.com/valpere/promptstudio/internal/segmenter"
)

// CreativityModifier maps a creativity level (1..10) to the wording used in
// the generation meta-request.
func CreativityModifier(level int) string {
	switch {
	case level > 7:
		return "highly creative and innovative"
	case level > 4:
		return "moderately creative"
	default:
		return "clear and straightforward"
	}
}

// BuildMetaPrompt builds the generation meta-request for idea.
func BuildMetaPrompt(idea string, creativityLevel int) string {
	return fmt.Sprintf(`
You are an expert prompt engineering team tasked with creating 4 professional prompt versions for the rough prompt idea '%[1]s'. Each prompt must have a distinct style: Concise, Detailed, Structured, and Creative. Ensure the prompts are %[2]s, relevant to the topic, and optimized for clarity and effectiveness. Return the prompts in the following format, with each prompt labeled:

1. **Concise**: A short, direct prompt (50-100 words).
2. **Detailed**: A comprehensive prompt (150-200 words) with specific instructions.
3. **Structured**: A prompt (100-150 words) using bullet points or numbered steps.
4. **Creative**: A novel, engaging prompt (100-150 words) with a unique angle.

Example for rough prompt 'Write a blog about AI trends':
1. **Concise**: Write a 500-word blog on key AI trends in 2025, focusing on industry impacts.
2. **Detailed**: Write a 1000-word blog exploring AI trends in 2025, including case studies, data, and predictions, in a professional tone for tech executives.
3. **Structured**: Write a 750-word blog on AI trends, covering:
   - Current advancements
   - Industry applications
   - Future outlook
4. **Creative**: Craft a 600-word blog as a futuristic AI narrating 2025 trends, blending humor and insight.

Generate the 4 prompts for '%[1]s'.
`, idea, CreativityModifier(creativityLevel))
}

// Generator produces the prompt variants for a rough idea.
type Generator struct {
	client  llm.Client
	modelID string
	logger  *slog.Logger
}

// New creates a Generator that sends meta-requests to modelID.
func New(client llm.Client, modelID string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, modelID: modelID, logger: logger}
}

// Generate returns exactly one variant per canonical style. Only a failed
// model call is reported as an error; unparseable sections become sentinel
// variants.
func (g *Generator) Generate(ctx context.Context, idea string, creativityLevel int) ([]internal.PromptVariant, error) {
	g.logger.Info("generating prompts", "idea", idea, "creativity", creativityLevel, "model", g.modelID)

	raw, err := g.client.Complete(ctx, g.modelID, BuildMetaPrompt(idea, creativityLevel))
	if err != nil {
		g.logger.Error("prompt generation failed", "model", g.modelID, "error", err)
		return nil, fmt.Errorf("generate prompts: %w", err)
	}
	g.logger.Debug("received raw response", "excerpt", internal.Excerpt(raw, 100))

	return segmenter.Segment(raw, internal.Styles, g.logger), nil
}
