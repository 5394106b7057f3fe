// Package detector identifies the natural language of a text.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// DefaultLanguages is the set of languages prompts are usually written in.
// Restricting the set keeps the detector's model footprint small.
var DefaultLanguages = []lingua.Language{
	lingua.English, lingua.Spanish, lingua.French, lingua.German,
	lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Polish,
	lingua.Russian, lingua.Ukrainian, lingua.Chinese, lingua.Japanese,
	lingua.Korean, lingua.Arabic, lingua.Hindi, lingua.Turkish,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector for languages, or DefaultLanguages when none are given.
func New(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
