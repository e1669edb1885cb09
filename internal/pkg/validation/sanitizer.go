package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength matches the width of the name columns in race_odds
const MaxNameLength = 200

var (
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// SanitizeName cleans a race label scraped from page text:
// control characters are dropped, whitespace runs collapse to one space and
// the result is capped at MaxNameLength runes.
func SanitizeName(name string) string {
	sanitized := spaceRuns.ReplaceAllString(name, " ")
	sanitized = controlChars.ReplaceAllString(sanitized, "")
	sanitized = strings.TrimSpace(sanitized)

	if utf8.RuneCountInString(sanitized) > MaxNameLength {
		sanitized = strings.TrimSpace(string([]rune(sanitized)[:MaxNameLength]))
	}
	return sanitized
}
