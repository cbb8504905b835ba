package normalize

import (
	"regexp"
	"strings"
)

// Sentinel authors. Records resolving to one of these are classified as
// system records rather than user messages.
const (
	SenderUnknown = "Unknown"
	SenderSystem  = "System"
)

const previewLength = 200

var whitespacePattern = regexp.MustCompile(`\s+`)

// Clean strips known boilerplate phrases (UI action labels captured by
// container-level text selectors), collapses repeated whitespace and
// trims the result.
func Clean(text string, boilerplate []string) string {
	for _, phrase := range boilerplate {
		if phrase == "" {
			continue
		}
		text = strings.ReplaceAll(text, phrase, " ")
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Collapse flattens whitespace runs without touching boilerplate.
func Collapse(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Preview truncates text for list display, backing up to the last word
// boundary when one sits reasonably close to the cut.
func Preview(text string) string {
	return truncate(text, previewLength)
}

func truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	cut := string(r[:max])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}

// Classify derives the record type from author resolution: records with
// no real participant behind them are system records.
func Classify(author string) string {
	switch strings.TrimSpace(author) {
	case "", SenderUnknown, SenderSystem:
		return "system"
	}
	return "user"
}
