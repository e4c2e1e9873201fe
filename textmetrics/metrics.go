package textmetrics

import (
	"strings"
	"unicode/utf8"
)

const (
	// CharsPerToken is the fixed characters-per-token ratio of the heuristic estimator.
	CharsPerToken = 4

	// WordsPerMinute is the assumed reading speed.
	WordsPerMinute = 200
)

// EstimateTokens returns ceil(runes / CharsPerToken).
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + CharsPerToken - 1) / CharsPerToken
}

// EstimateReadingSeconds returns the reading time of text in whole seconds, rounded up.
func EstimateReadingSeconds(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return (words*60 + WordsPerMinute - 1) / WordsPerMinute
}
