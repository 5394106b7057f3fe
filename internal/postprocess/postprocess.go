// Package postprocess removes common LLM artifacts from a rewritten prompt.
//
// It is applied to the refinement response only. Generation and test
// responses reach the segmenter and scorer unchanged.
package postprocess

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean removes LLM artifacts from text in four phases and returns the
// trimmed result:
//  1. Unicode NFC normalization
//  2. Leading thinking / reasoning block removal
//  3. Preamble echo removal ("Here is the refined prompt:")
//  4. Quote wrapping removal
func Clean(text string) string {
	text = norm.NFC.String(text)
	text = removeThinkingBlocks(text)
	text = removePreambleEchoes(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// --- Phase 2: thinking blocks ---

// leadingThinkingRe matches a complete <thinking>…</thinking> style block at
// the very start of the text. Blocks further in are content: a rewritten
// prompt may itself ask the model to reason inside such tags.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
var leadingThinkingRe = regexp.MustCompile(
	`(?is)^\s*(?:<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>)`,
)

func removeThinkingBlocks(text string) string {
	for {
		loc := leadingThinkingRe.FindStringIndex(text)
		if loc == nil {
			return strings.TrimSpace(text)
		}
		text = text[loc[1]:]
	}
}

// --- Phase 3: preamble echoes ---

// echoPatterns match introductory phrases models prepend to a rewritten
// prompt. Each is anchored to the start and requires a colon so that prompts
// which merely mention "the refined prompt" survive.
var echoPatterns = []*regexp.Regexp{
	// "Here is / Here's [the|your] [refined|improved|revised|updated] prompt:"
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the| your)? (?:refined |improved |revised |updated )?prompt\s*:`),
	// "[**][The] refined|improved|revised prompt[**]:[**]"
	regexp.MustCompile(`(?i)^(?:\*\*)?(?:the )?(?:refined|improved|revised) prompt(?:\*\*)?\s*:(?:\*\*)?`),
	// "Certainly / Sure / Of course[,] here is [the] prompt:"
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.!]? here(?:'s| is)(?: the| your)? (?:refined |improved |revised |updated )?prompt\s*:`),
}

func removePreambleEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// --- Phase 4: quote wrapping ---

// removeQuoteWrapping strips a matching pair of outer quotes when the entire
// text is wrapped in them.  Supported pairs:
//
//	"…"  '…'  «…»  "…"  '…'
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') ||
		(first == '‘' && last == '’') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
