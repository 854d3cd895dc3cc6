// Package corpus reads and writes the question corpus interchange
// format. Two input shapes are accepted: a list of exams each carrying
// its questions, or a bare question list with no exam grouping, which
// is wrapped into one synthetic exam.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"examcorpus-backend/internal/exams"
)

// SyntheticFilename marks an exam fabricated around an ungrouped
// question list.
const SyntheticFilename = "ungrouped_questions"

// Stats summarizes a corpus for the export envelope.
type Stats struct {
	Exams         int            `json:"exams"`
	Questions     int            `json:"questions"`
	SubQuestions  int            `json:"sub_questions"`
	WithMarks     int            `json:"with_marks"`
	WithOCR       int            `json:"extracted_with_ocr"`
	ByType        map[string]int `json:"by_type"`
	ByCourse      map[string]int `json:"by_course"`
	AvgDifficulty *float64       `json:"avg_difficulty"`
}

// Document is the export envelope.
type Document struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Stats       Stats        `json:"stats"`
	Exams       []exams.Exam `json:"exams"`
}

type inputShape struct {
	Exams     []exams.Exam         `json:"exams"`
	Questions []exams.QuestionUnit `json:"questions"`
}

// Load decodes a corpus from either accepted shape. A bare top-level
// array is sniffed: elements carrying a "questions" field are exams,
// anything else is treated as an ungrouped question list.
func Load(r io.Reader) ([]exams.Exam, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var head struct{}
	if err := json.Unmarshal(raw, &head); err == nil {
		var shaped inputShape
		if err := json.Unmarshal(raw, &shaped); err != nil {
			return nil, fmt.Errorf("decode corpus: %w", err)
		}
		switch {
		case len(shaped.Exams) > 0:
			return shaped.Exams, nil
		case len(shaped.Questions) > 0:
			return []exams.Exam{syntheticExam(shaped.Questions)}, nil
		default:
			return nil, nil
		}
	}

	var asExams []exams.Exam
	if err := json.Unmarshal(raw, &asExams); err == nil && looksLikeExams(asExams) {
		return asExams, nil
	}

	var asQuestions []exams.QuestionUnit
	if err := json.Unmarshal(raw, &asQuestions); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	if len(asQuestions) == 0 {
		return nil, nil
	}
	return []exams.Exam{syntheticExam(asQuestions)}, nil
}

func looksLikeExams(list []exams.Exam) bool {
	for _, e := range list {
		if e.Filename != "" || len(e.Questions) > 0 {
			return true
		}
	}
	return false
}

func syntheticExam(questions []exams.QuestionUnit) exams.Exam {
	return exams.Exam{
		ID:                uuid.NewString(),
		Filename:          SyntheticFilename,
		ExtractionSuccess: true,
		Questions:         questions,
		CreatedAt:         time.Now().UTC(),
	}
}

// Export writes the corpus with its computed stats.
func Export(w io.Writer, list []exams.Exam) error {
	doc := Document{
		GeneratedAt: time.Now().UTC(),
		Stats:       ComputeStats(list),
		Exams:       list,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	return nil
}

// ComputeStats walks the corpus once and aggregates reporting fields.
func ComputeStats(list []exams.Exam) Stats {
	stats := Stats{
		Exams:    len(list),
		ByType:   make(map[string]int),
		ByCourse: make(map[string]int),
	}

	diffSum := 0.0
	diffCount := 0
	for _, e := range list {
		if e.OCRLanguage != "" {
			stats.WithOCR++
		}
		if e.CourseCode != "" {
			stats.ByCourse[e.CourseCode] += len(e.Questions)
		}
		for _, q := range e.Questions {
			stats.Questions++
			if q.IsSubQuestion {
				stats.SubQuestions++
			}
			if q.Marks != nil {
				stats.WithMarks++
			}
			if q.Type != "" {
				stats.ByType[string(q.Type)]++
			}
			if q.DifficultyScore != nil {
				diffSum += *q.DifficultyScore
				diffCount++
			}
		}
	}
	if diffCount > 0 {
		avg := diffSum / float64(diffCount)
		stats.AvgDifficulty = &avg
	}
	return stats
}
