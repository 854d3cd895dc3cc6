package extract

import (
	"strings"
	"unicode"

	"examcorpus-backend/internal/exams"
)

// ComputeStats measures text. Sentence boundaries are approximated by
// terminal punctuation, which is close enough for exam prose.
func ComputeStats(text string) exams.TextStats {
	stats := exams.TextStats{Characters: len(text)}

	words := strings.Fields(text)
	stats.Words = len(words)
	if len(words) == 0 {
		return stats
	}

	seen := make(map[string]struct{}, len(words))
	totalLen := 0
	for _, w := range words {
		norm := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if norm != "" {
			seen[norm] = struct{}{}
		}
		totalLen += len(w)
	}
	stats.UniqueWords = len(seen)
	stats.AvgWordLength = float64(totalLen) / float64(len(words))

	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			stats.Sentences++
		}
	}
	if stats.Sentences > 0 {
		stats.AvgSentenceLen = float64(stats.Words) / float64(stats.Sentences)
	}
	return stats
}
