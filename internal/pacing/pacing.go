// Package pacing computes how long a word stays on screen.
package pacing

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	sentenceFactor = 3.5
	clauseFactor   = 2.0
	longWordFactor = 1.3
	longWordRunes  = 12
)

// Factor returns the delay multiplier for the word just displayed. Only the
// first matching rule applies.
func Factor(word string) float64 {
	switch {
	case strings.HasSuffix(word, ".") || strings.HasSuffix(word, "?") || strings.HasSuffix(word, "!"):
		return sentenceFactor
	case strings.HasSuffix(word, ",") || strings.HasSuffix(word, ";"):
		return clauseFactor
	case utf8.RuneCountInString(word) > longWordRunes:
		return longWordFactor
	default:
		return 1.0
	}
}

// DelayMs returns the delay in milliseconds after showing word at wpm.
// wpm must be positive and finite; callers own that invariant.
func DelayMs(wpm float64, word string) float64 {
	return 60000 / wpm * Factor(word)
}

// Delay is DelayMs as a time.Duration.
func Delay(wpm float64, word string) time.Duration {
	return time.Duration(DelayMs(wpm, word) * float64(time.Millisecond))
}
