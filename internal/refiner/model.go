package refiner

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/valpere/promptstudio/internal"
	"github.com/valpere/promptstudio/internal/llm"
	"github.com/valpere/promptstudio/internal/postprocess"
	"github.com/valpere/promptstudio/internal/scorer"
)

const (
	SuggestSpecificity = "Add more specific instructions for clarity."
	SuggestLength      = "Increase the expected output length."
	SuggestAudience    = "Specify tone and target audience."

	outputExcerptRunes = 200
	specificityScore   = 80
	minOutputWords     = 50
)

var audienceRe = regexp.MustCompile(`\b(?:tone|style|audience)\b`)

// ModelRefiner sends the refinement meta-request through an llm.Client.
type ModelRefiner struct {
	client  llm.Client
	modelID string
	logger  *slog.Logger
}

// New creates a refiner backed by modelID.
func New(client llm.Client, modelID string, logger *slog.Logger) *ModelRefiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelRefiner{client: client, modelID: modelID, logger: logger}
}

// Refine returns the model's improved prompt, or prompt itself when the
// model call fails.
func (r *ModelRefiner) Refine(ctx context.Context, prompt, output string, score int) string {
	r.logger.Info("refining prompt", "prompt", internal.Excerpt(prompt, 50), "score", score)

	refined, err := r.client.Complete(ctx, r.modelID, BuildRefinementPrompt(prompt, output, score))
	if err != nil {
		r.logger.Error("prompt refinement failed, keeping original",
			"prompt", internal.Excerpt(prompt, 50), "model", r.modelID, "error", err)
		return prompt
	}

	refined = postprocess.Clean(refined)
	if refined == "" {
		r.logger.Warn("empty refinement response, keeping original", "model", r.modelID)
		return prompt
	}
	r.logger.Info("refined prompt", "prompt", internal.Excerpt(refined, 50))
	return refined
}

// Suggestions lists the refinement hints that apply to a prompt and its
// test output. Each hint appears at most once.
func Suggestions(prompt, output string, score int) []string {
	var s []string
	if score < specificityScore {
		s = append(s, SuggestSpecificity)
	}
	if scorer.WordCount(output) < minOutputWords {
		s = append(s, SuggestLength)
	}
	if !audienceRe.MatchString(strings.ToLower(prompt)) {
		s = append(s, SuggestAudience)
	}
	return s
}

// BuildRefinementPrompt builds the critique-and-improve meta-request.
func BuildRefinementPrompt(prompt, output string, score int) string {
	suggestions := strings.Join(Suggestions(prompt, output, score), ", ")
	if suggestions == "" {
		suggestions = "None"
	}

	return fmt.Sprintf(`
You are an expert prompt engineer tasked with refining the following prompt to improve its clarity, specificity, and effectiveness. Original prompt: '%s'. Test output: '%s...'. Score: %d/100. Suggested refinements: %s. Return the refined prompt.
`, prompt, internal.Truncate(output, outputExcerptRunes), score, suggestions)
}
