package cleaning

import (
	"examcorpus-backend/internal/shared/util"
)

// DefaultSimilarityThreshold collapses questions whose character
// sequences overlap at or above this ratio.
const DefaultSimilarityThreshold = 0.85

type dupResult int

const (
	dupNone dupResult = iota
	dupExact
	dupSimilar
)

// Deduper holds the configured threshold; each document gets its own
// Run so accepted sets never leak across exams.
type Deduper struct {
	threshold float64
}

func NewDeduper(threshold float64) *Deduper {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &Deduper{threshold: threshold}
}

// Run accumulates accepted questions for one document.
type Run struct {
	threshold float64
	seen      map[string]struct{}
	accepted  []string
}

func (d *Deduper) NewRun() *Run {
	return &Run{
		threshold: d.threshold,
		seen:      make(map[string]struct{}),
	}
}

// Check classifies text against everything accepted so far and, when it
// is new, accepts it. The exact-hash tier runs first because it is a
// map probe; the pairwise similarity scan only pays off for texts that
// differ somewhere. The first-encountered duplicate always wins.
func (r *Run) Check(text string) dupResult {
	normalized := util.NormalizeForHash(text)
	hash := util.HashText(text)

	if _, ok := r.seen[hash]; ok {
		return dupExact
	}
	for _, prev := range r.accepted {
		if Similarity(normalized, prev) >= r.threshold {
			return dupSimilar
		}
	}

	r.seen[hash] = struct{}{}
	r.accepted = append(r.accepted, normalized)
	return dupNone
}

// Similarity is the Ratcliff/Obershelp ratio: twice the number of
// matching characters over the combined length, where matches come from
// recursively taking the longest common substring.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matchingChars(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	aStart, bStart, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:aStart], b[:bStart])
	total += matchingChars(a[aStart+size:], b[bStart+size:])
	return total
}

func longestCommonSubstring(a, b string) (aStart, bStart, size int) {
	// One-row DP over byte positions: lengths[j] is the length of the
	// common suffix ending at a[i], b[j].
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 0; j < len(b); j++ {
			cur := lengths[j+1]
			if a[i] == b[j] {
				lengths[j+1] = prev + 1
				if lengths[j+1] > size {
					size = lengths[j+1]
					aStart = i - size + 1
					bStart = j - size + 1
				}
			} else {
				lengths[j+1] = 0
			}
			prev = cur
		}
	}
	return aStart, bStart, size
}
