package internal

import "time"

// Style is one of the four fixed prompt styles produced per run.
type Style string

const (
	StyleConcise    Style = "Concise"
	StyleDetailed   Style = "Detailed"
	StyleStructured Style = "Structured"
	StyleCreative   Style = "Creative"
)

// Styles lists the prompt styles in canonical order. Variant ids follow this
// order starting at 1.
var Styles = []Style{StyleConcise, StyleDetailed, StyleStructured, StyleCreative}

// PromptVariant is one styled prompt candidate together with its test output
// and score once the pipeline has tested it.
type PromptVariant struct {
	ID     int    `json:"id" yaml:"id"`
	Style  Style  `json:"style" yaml:"style"`
	Prompt string `json:"prompt" yaml:"prompt"`
	Output string `json:"output" yaml:"output"`
	Score  int    `json:"score" yaml:"score"`
	Failed bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// RunResult is everything one pipeline run produced.
type RunResult struct {
	ID              string          `json:"id" yaml:"id"`
	OriginalIdea    string          `json:"original_idea" yaml:"original_idea"`
	CreativityLevel int             `json:"creativity_level" yaml:"creativity_level"`
	ModelID         string          `json:"model" yaml:"model"`
	Iterations      int             `json:"iterations" yaml:"iterations"`
	Variants        []PromptVariant `json:"variants" yaml:"variants"`
	BestID          int             `json:"best_id" yaml:"best_id"`
	RefinedPrompt   string          `json:"refined_prompt" yaml:"refined_prompt"`
	Report          string          `json:"report" yaml:"report"`
	GeneratedAt     time.Time       `json:"generated_at" yaml:"generated_at"`
}

// Best returns the variant selected for refinement.
func (r RunResult) Best() (PromptVariant, bool) {
	for _, v := range r.Variants {
		if v.ID == r.BestID {
			return v, true
		}
	}
	return PromptVariant{}, false
}

// Excerpt returns at most n runes of s, followed by "..." when truncated.
// It is used to keep log records short.
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
