// Package markdown renders a run as a Markdown document and converts
// Markdown to HTML for the browser-friendly export.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/valpere/promptstudio/internal"
)

func ToHTML(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.CompletePage,
		Title: "PromptStudio Report",
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}

// FromRun renders result as Markdown. Prompts and outputs are fenced so that
// model-produced Markdown does not leak into the document structure.
func FromRun(result *internal.RunResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("# PromptStudio Report\n\n")
	fmt.Fprintf(&buf, "- **Run:** `%s`\n", result.ID)
	fmt.Fprintf(&buf, "- **Generated:** %s\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, "- **Model:** `%s`\n", result.ModelID)
	fmt.Fprintf(&buf, "- **Original idea:** %s\n\n", escapeInline(result.OriginalIdea))

	buf.WriteString("## Scores\n\n")
	buf.WriteString("| # | Style | Score |\n|---|-------|------:|\n")
	for _, v := range result.Variants {
		mark := ""
		if v.ID == result.BestID {
			mark = " ★"
		}
		fmt.Fprintf(&buf, "| %d | %s%s | %d/100 |\n", v.ID, v.Style, mark, v.Score)
	}
	buf.WriteString("\n")

	buf.WriteString("## Generated Prompts\n\n")
	for _, v := range result.Variants {
		fmt.Fprintf(&buf, "### Prompt %d (%s)\n\n", v.ID, v.Style)
		writeFenced(&buf, v.Prompt)
		buf.WriteString("**Test output:**\n\n")
		writeFenced(&buf, v.Output)
	}

	buf.WriteString("## Refined Prompt\n\n")
	writeFenced(&buf, result.RefinedPrompt)

	return buf.Bytes()
}

// RunToHTML renders result as a standalone HTML page.
func RunToHTML(result *internal.RunResult) string {
	return ToHTML(FromRun(result))
}

func writeFenced(buf *bytes.Buffer, text string) {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	fmt.Fprintf(buf, "%s\n%s\n%s\n\n", fence, text, fence)
}

func escapeInline(s string) string {
	r := strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "\n", " ")
	return r.Replace(s)
}
