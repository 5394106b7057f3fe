// Package report renders the plain-text summary of a PromptStudio run.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/valpere/promptstudio/internal"
)

// TimestampLayout is ISO-8601 with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000"

const outputExcerptRunes = 500

// Generate renders the report. variants must be non-empty and carry their
// test output and score.
func Generate(idea string, variants []internal.PromptVariant, refinedPrompt string, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("PromptStudio Report\n")
	sb.WriteString("==================\n")
	fmt.Fprintf(&sb, "Generated: %s\n", generatedAt.Format(TimestampLayout))
	fmt.Fprintf(&sb, "Original Rough Prompt: %s\n", idea)
	sb.WriteString("\n1. Generated Prompts\n")
	sb.WriteString("-------------------\n")

	for _, v := range variants {
		fmt.Fprintf(&sb, "\nPrompt %d (%s):\n%s\n", v.ID, v.Style, v.Prompt)
		fmt.Fprintf(&sb, "\nTest Output:\n%s...\n", internal.Truncate(v.Output, outputExcerptRunes))
		fmt.Fprintf(&sb, "\nScore: %d/100\n", v.Score)
	}

	sb.WriteString("\n2. Refined Prompt\n")
	sb.WriteString("----------------\n")
	sb.WriteString(refinedPrompt)
	sb.WriteString("\n")

	styles := make([]string, len(variants))
	for i, v := range variants {
		styles[i] = string(v.Style)
	}

	sb.WriteString("\n3. Summary\n")
	sb.WriteString("----------\n")
	fmt.Fprintf(&sb, "Processed %d prompts with styles: %s.\n", len(variants), strings.Join(styles, ", "))
	fmt.Fprintf(&sb, "Highest score: %d/100.\n", HighestScore(variants))
	sb.WriteString("Refinement improved the best prompt based on test feedback.\n")
	sb.WriteString("==================\n")

	return sb.String()
}

// HighestScore returns the maximum score across variants.
func HighestScore(variants []internal.PromptVariant) int {
	best := 0
	for i, v := range variants {
		if i == 0 || v.Score > best {
			best = v.Score
		}
	}
	return best
}
