// Package scorer computes a 0–100 heuristic quality score for a model output
// relative to the prompt that produced it.
package scorer

import (
	"regexp"
	"strings"
)

// Bucket points. The maxima add up to 90.
const (
	ClarityPoints      = 30
	CleanPoints        = 10
	HighRelevance      = 30
	PartialRelevance   = 20
	IdealLengthPoints  = 20
	AcceptableLength   = 10
	MaxScore           = 100
	relevanceThreshold = 0.5
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]`)
	bannedWordRe  = regexp.MustCompile(`\b(?:lorem|ipsum|error)\b`)
	wordTokenRe   = regexp.MustCompile(`[\p{L}\p{N}\p{Mn}_]+`)
)

// Breakdown holds the points awarded by each bucket.
type Breakdown struct {
	Clarity   int `json:"clarity"`
	Clean     int `json:"clean"`
	Relevance int `json:"relevance"`
	Length    int `json:"length"`
}

// Total returns the clamped sum of the buckets.
func (b Breakdown) Total() int {
	return min(b.Clarity+b.Clean+b.Relevance+b.Length, MaxScore)
}

// Score returns the heuristic score of output for prompt.
func Score(output, prompt string) int {
	return Evaluate(output, prompt).Total()
}

// Evaluate scores output bucket by bucket. An output with no words earns
// nothing, including the clean-text bonus.
func Evaluate(output, prompt string) Breakdown {
	var b Breakdown

	words := WordCount(output)
	lower := strings.ToLower(output)

	if words > 10 && len(sentenceEndRe.FindAllStringIndex(output, -1)) > 1 {
		b.Clarity = ClarityPoints
	}
	if words > 0 && !bannedWordRe.MatchString(lower) {
		b.Clean = CleanPoints
	}

	promptTokens := tokenSet(prompt)
	outputTokens := tokenSet(output)
	overlap := 0
	for tok := range promptTokens {
		if _, ok := outputTokens[tok]; ok {
			overlap++
		}
	}
	ratio := float64(overlap) / float64(max(len(promptTokens), 1))
	switch {
	case ratio > relevanceThreshold:
		b.Relevance = HighRelevance
	case overlap > 0:
		b.Relevance = PartialRelevance
	}

	switch {
	case words >= 50 && words <= 500:
		b.Length = IdealLengthPoints
	case (words >= 20 && words < 50) || (words > 500 && words <= 1000):
		b.Length = AcceptableLength
	}

	return b
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func tokenSet(text string) map[string]struct{} {
	tokens := wordTokenRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
