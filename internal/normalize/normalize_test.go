package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	boilerplate := []string{"end-of-message", "View proposal"}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips boilerplate",
			input:    "Thanks for applying end-of-message",
			expected: "Thanks for applying",
		},
		{
			name:     "collapses whitespace",
			input:    "Hello\n\n   there\t friend",
			expected: "Hello there friend",
		},
		{
			name:     "boilerplate in the middle",
			input:    "New offer View proposal from client",
			expected: "New offer from client",
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input, boilerplate))
		})
	}
}

func TestClean_IgnoresEmptyPhrases(t *testing.T) {
	assert.Equal(t, "abc", Clean("abc", []string{""}))
}

func TestPreview_ShortTextUntouched(t *testing.T) {
	assert.Equal(t, "short message", Preview("short message"))
}

func TestPreview_TruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 60) //300 chars
	p := Preview(long)

	assert.LessOrEqual(t, len(p), 200)
	//must not end mid-word
	assert.False(t, strings.HasSuffix(p, "wor"))
	assert.True(t, strings.HasSuffix(p, "word"))
}

func TestPreview_NoSpacesHardCut(t *testing.T) {
	long := strings.Repeat("x", 250)
	assert.Equal(t, 200, len(Preview(long)))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		author   string
		expected string
	}{
		{"Alice Johnson", "user"},
		{"Unknown", "system"},
		{"System", "system"},
		{"", "system"},
		{"   ", "system"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.author), "author %q", tt.author)
	}
}
