// Package cleaning validates question units, strips document noise, and
// collapses duplicate questions into a single representative.
package cleaning

import (
	"regexp"
	"strings"
	"unicode"

	"examcorpus-backend/internal/exams"
)

// A unit whose cleaned text is mostly symbols is OCR noise, not a
// question.
const minLetterRatio = 0.15

// Noise stripped before validation runs.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^[ \t]*page[ \t]+\d+([ \t]+of[ \t]+\d+)?[ \t]*$`),
	regexp.MustCompile(`(?im)^[ \t]*\d+[ \t]*$`),
	regexp.MustCompile(`(?i)(©|\(c\)|copyright)[ \t]*\d{4}[^\n]*`),
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`\[[^\]\n]{0,80}\]`),
}

// Lines that identify a unit as exam boilerplate rather than a
// question.
var boilerplateRe = regexp.MustCompile(`(?i)^[ \t]*(page[ \t]+\d+|answer[ \t]+key|table[ \t]+of[ \t]+contents|instructions[ \t]*:|total[ \t]+marks[ \t]*:)`)

var (
	hyphenBreakRe = regexp.MustCompile(`([a-z])-\n[ \t]*([a-z])`)
	whitespaceRe  = regexp.MustCompile(`[ \t]+`)
	blankLinesRe  = regexp.MustCompile(`\n{2,}`)
)

// Report counts what one cleaning pass did, for the batch summary.
type Report struct {
	Input              int `json:"input"`
	RejectedShort      int `json:"rejected_short"`
	RejectedLowLetters int `json:"rejected_low_letter_ratio"`
	RejectedBoiler     int `json:"rejected_boilerplate"`
	DuplicatesExact    int `json:"duplicates_exact"`
	DuplicatesSimilar  int `json:"duplicates_similar"`
	Output             int `json:"output"`
}

type Cleaner struct {
	minLength int
	deduper   *Deduper
}

func NewCleaner(minLength int, similarityThreshold float64) *Cleaner {
	if minLength <= 0 {
		minLength = 20
	}
	return &Cleaner{
		minLength: minLength,
		deduper:   NewDeduper(similarityThreshold),
	}
}

// Clean runs noise removal, validation and deduplication over a
// document's questions, preserving original order among survivors.
// Cleaning is idempotent: running an already-cleaned list through again
// yields the same set.
func (c *Cleaner) Clean(questions []exams.QuestionUnit) ([]exams.QuestionUnit, Report) {
	report := Report{Input: len(questions)}
	dedupe := c.deduper.NewRun()

	out := make([]exams.QuestionUnit, 0, len(questions))
	for _, q := range questions {
		q.Text = CleanText(q.Text)
		q.Length = len(q.Text)

		switch {
		case len(q.Text) < c.minLength:
			report.RejectedShort++
			continue
		case letterRatio(q.Text) < minLetterRatio:
			report.RejectedLowLetters++
			continue
		case boilerplateRe.MatchString(q.Text):
			report.RejectedBoiler++
			continue
		}

		switch dedupe.Check(q.Text) {
		case dupExact:
			report.DuplicatesExact++
			continue
		case dupSimilar:
			report.DuplicatesSimilar++
			continue
		}

		out = append(out, q)
	}
	report.Output = len(out)
	return out, report
}

// CleanText strips noise and normalizes whitespace in one unit's text.
func CleanText(text string) string {
	text = stripControlRunes(text)
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	for _, re := range noisePatterns {
		text = re.ReplaceAllString(text, "")
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// stripControlRunes drops zero-width characters, BOMs and control
// characters that OCR and PDF text layers leak into output.
func stripControlRunes(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad':
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
}

func letterRatio(text string) float64 {
	if text == "" {
		return 0
	}
	letters := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(total)
}
