// Package validator checks that a test output is written in the same language
// as the rough idea it was generated from.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/promptstudio/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator compares the detected languages of two texts.
// The underlying language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// SameLanguage returns nil when output appears to be written in the language
// of reference.
//
// Short texts (fewer than minValidationLength runes) and texts whose language
// cannot be determined pass. When the languages differ the returned error
// names both codes.
func (v *Validator) SameLanguage(reference, output string) error {
	reference = strings.TrimSpace(reference)
	output = strings.TrimSpace(output)

	if output == "" {
		return fmt.Errorf("output is empty")
	}

	if len([]rune(reference)) < minValidationLength || len([]rune(output)) < minValidationLength {
		return nil
	}

	want, ok := v.det.DetectISO(reference)
	if !ok {
		return nil
	}
	got, ok := v.det.DetectISO(output)
	if !ok {
		return nil
	}

	if !strings.EqualFold(want, got) {
		return fmt.Errorf("expected %s but detected %s", want, got)
	}
	return nil
}
