// Package difficulty extracts per-question marks and converts them into
// a normalized difficulty ratio against the exam's total marks.
package difficulty

import (
	"regexp"
	"strconv"

	"examcorpus-backend/internal/exams"
)

// Sane bounds for a whole exam's total marks. A computed total outside
// them is extraction noise and is discarded, never clamped.
const (
	minTotalMarks = 10
	maxTotalMarks = 300
)

// Marks sources, recorded in Stats for corpus comparability.
const (
	SourceCoverPage = "cover_page"
	SourceSummed    = "calculated_sum"
	SourceNone      = "unavailable"
)

// Marks pattern cascade, most explicit first. The first pattern whose
// capture parses to a positive number wins.
var marksPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\((\d+(?:\.\d+)?)\s*(?:pts?|points?)\)`),
	regexp.MustCompile(`(?i)\[(\d+(?:\.\d+)?)\s*marks?\]`),
	regexp.MustCompile(`(?i)\((\d+(?:\.\d+)?)\s*marks?\)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*points?\.`),
	regexp.MustCompile(`\((\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*marks?\b`),
	regexp.MustCompile(`(?i)worth\s+(\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:pts?|points?)\s+each`),
}

// Stats reports how an exam's difficulty run went.
type Stats struct {
	TotalMarks      *float64 `json:"total_marks"`
	MarksSource     string   `json:"marks_source"`
	QuestionsScored int      `json:"questions_scored"`
	QuestionsMarked int      `json:"questions_marked"`
	InvalidTotal    bool     `json:"invalid_total"`
}

type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// ExtractMarks runs the pattern cascade over one question's text.
func (s *Scorer) ExtractMarks(text string) *float64 {
	for _, re := range marksPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		marks, err := strconv.ParseFloat(m[1], 64)
		if err != nil || marks <= 0 {
			continue
		}
		return &marks
	}
	return nil
}

// Score fills Marks and DifficultyScore on every question in place.
//
// The total comes from cover metadata when present and in bounds;
// summing per-question marks is only the fallback. A total above the
// sane ceiling means extraction picked up a phone number or a year, so
// difficulty becomes unavailable for the whole exam rather than
// silently wrong. Unknown marks yield a nil score, never zero.
func (s *Scorer) Score(questions []exams.QuestionUnit, cover *exams.CoverMetadata) Stats {
	stats := Stats{MarksSource: SourceNone}

	for i := range questions {
		if questions[i].Marks == nil {
			questions[i].Marks = s.ExtractMarks(questions[i].Text)
		}
		if questions[i].Marks != nil {
			stats.QuestionsMarked++
		}
	}

	total := s.chooseTotal(questions, cover, &stats)
	if total == nil {
		for i := range questions {
			questions[i].DifficultyScore = nil
		}
		return stats
	}
	stats.TotalMarks = total

	for i := range questions {
		q := &questions[i]
		if q.Marks == nil {
			q.DifficultyScore = nil
			continue
		}
		score := clamp01(*q.Marks / *total)
		q.DifficultyScore = &score
		stats.QuestionsScored++
	}
	return stats
}

func (s *Scorer) chooseTotal(questions []exams.QuestionUnit, cover *exams.CoverMetadata, stats *Stats) *float64 {
	if cover != nil && cover.TotalMarks != nil {
		t := *cover.TotalMarks
		if t >= minTotalMarks && t <= maxTotalMarks {
			stats.MarksSource = SourceCoverPage
			return &t
		}
	}

	sum := 0.0
	for _, q := range questions {
		if q.Marks != nil {
			sum += *q.Marks
		}
	}
	if sum <= 0 {
		return nil
	}
	if sum > maxTotalMarks {
		stats.InvalidTotal = true
		return nil
	}
	stats.MarksSource = SourceSummed
	return &sum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
