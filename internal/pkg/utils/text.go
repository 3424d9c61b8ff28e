package utils

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSpace trims s and collapses internal whitespace runs to
// single spaces.
func NormalizeSpace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// DigitsAndHyphens strips every rune except digits and hyphens.
func DigitsAndHyphens(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ZipPrefix returns the first five digit runes of s, ignoring everything
// else. An empty result means s carried fewer than five digits.
func ZipPrefix(s string) string {
	digits := make([]rune, 0, 5)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 5 {
				return string(digits)
			}
		}
	}
	return ""
}
