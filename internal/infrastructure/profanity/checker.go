package profanity

import (
	goaway "github.com/TwiN/go-away"
)

// Checker wraps the go-away profanity detector behind the use case's
// ProfanityChecker interface.
type Checker struct {
	detector *goaway.ProfanityDetector
}

func NewChecker() *Checker {
	return &Checker{
		detector: goaway.NewProfanityDetector(),
	}
}

// IsProfane reports whether the text contains inappropriate language.
func (c *Checker) IsProfane(text string) bool {
	return c.detector.IsProfane(text)
}
