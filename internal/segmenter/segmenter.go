// Package segmenter splits one multi-section model response into the
// per-style prompt texts.
//
// The search is literal and forward-only: the section for style i runs from
// the end of its "**Style**:" marker to the start of the marker of style i+1,
// and the last style runs to the end of the response. A response that lists
// the styles out of order or rewords a marker yields placeholder variants
// rather than an error.
package segmenter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/valpere/promptstudio/internal"
)

// Marker returns the literal label that introduces a style's section.
func Marker(style internal.Style) string {
	return fmt.Sprintf("**%s**:", style)
}

// Sentinel is the prompt text used when a style's section cannot be located.
func Sentinel(style internal.Style) string {
	return fmt.Sprintf("Error: Could not generate %s prompt.", style)
}

// IsSentinel reports whether text is the placeholder for style.
func IsSentinel(style internal.Style, text string) bool {
	return text == Sentinel(style)
}

// Segment returns exactly one variant per style, ids starting at 1, in the
// order of styles. Output and score are left unset.
func Segment(raw string, styles []internal.Style, logger *slog.Logger) []internal.PromptVariant {
	if logger == nil {
		logger = slog.Default()
	}

	variants := make([]internal.PromptVariant, 0, len(styles))
	for i, style := range styles {
		var next *internal.Style
		if i+1 < len(styles) {
			next = &styles[i+1]
		}

		text := section(raw, style, next)
		if text == "" {
			logger.Warn("failed to parse prompt section", "style", style, "marker", Marker(style))
			text = Sentinel(style)
		}

		variants = append(variants, internal.PromptVariant{
			ID:     i + 1,
			Style:  style,
			Prompt: text,
		})
	}
	return variants
}

// section locates the trimmed text between the marker of style and the
// marker of next. A missing next marker extends the section to the end of
// raw; a next marker that precedes the start yields an empty section.
func section(raw string, style internal.Style, next *internal.Style) string {
	marker := Marker(style)
	start := strings.Index(raw, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)

	end := len(raw)
	if next != nil {
		if idx := strings.Index(raw, Marker(*next)); idx >= 0 {
			end = idx
		}
	}

	if end <= start {
		return ""
	}
	return strings.TrimSpace(raw[start:end])
}
