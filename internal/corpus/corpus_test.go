package corpus

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"examcorpus-backend/internal/exams"
)

func TestLoadExamShape(t *testing.T) {
	in := `{"exams": [{"filename": "ECON310_final.pdf", "course_code": "ECON310", "questions": [{"question_number": 1, "text": "Define elasticity of demand.", "question_type": "short_answer"}]}]}`

	list, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].CourseCode != "ECON310" {
		t.Fatalf("got %+v", list)
	}
	if len(list[0].Questions) != 1 {
		t.Errorf("questions = %d", len(list[0].Questions))
	}
}

func TestLoadFlatQuestionsBecomesSyntheticExam(t *testing.T) {
	in := `{"questions": [{"question_number": 1, "text": "Define elasticity."}, {"question_number": 2, "text": "State the law of demand."}]}`

	list, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("exams = %d, want 1 synthetic", len(list))
	}
	if list[0].Filename != SyntheticFilename {
		t.Errorf("filename = %q", list[0].Filename)
	}
	if len(list[0].Questions) != 2 {
		t.Errorf("questions = %d, want 2", len(list[0].Questions))
	}
}

func TestLoadBareQuestionArray(t *testing.T) {
	in := `[{"question_number": 1, "text": "Compute the determinant."}]`

	list, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Filename != SyntheticFilename {
		t.Fatalf("got %+v", list)
	}
}

func TestExportRoundTrip(t *testing.T) {
	marks := 10.0
	score := 0.1
	in := []exams.Exam{{
		Filename:   "MATH201_2024.pdf",
		CourseCode: "MATH201",
		Questions: []exams.QuestionUnit{
			{QuestionNumber: 1, Text: "Prove the rank-nullity theorem.", Type: exams.TypeEssay, Marks: &marks, DifficultyScore: &score},
			{QuestionNumber: 2, Text: "True or false: every matrix is diagonalizable.", Type: exams.TypeTrueFalse, IsSubQuestion: true},
		},
	}}

	var buf bytes.Buffer
	if err := Export(&buf, in); err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Stats.Questions != 2 || doc.Stats.Exams != 1 {
		t.Errorf("stats = %+v", doc.Stats)
	}
	if doc.Stats.ByType[string(exams.TypeEssay)] != 1 {
		t.Errorf("by_type = %v", doc.Stats.ByType)
	}
	if doc.Stats.SubQuestions != 1 || doc.Stats.WithMarks != 1 {
		t.Errorf("stats = %+v", doc.Stats)
	}
	if doc.Stats.AvgDifficulty == nil || *doc.Stats.AvgDifficulty != 0.1 {
		t.Errorf("avg difficulty = %v", doc.Stats.AvgDifficulty)
	}
}
