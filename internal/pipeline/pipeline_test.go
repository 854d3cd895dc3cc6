package pipeline

import (
	"context"
	"testing"

	"examcorpus-backend/internal/extract"
)

type stubExtractor struct {
	results map[string]*extract.Result
	errs    map[string]error
}

func (s *stubExtractor) Extract(ctx context.Context, path string) (*extract.Result, error) {
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	if res, ok := s.results[path]; ok {
		return res, nil
	}
	return &extract.Result{}, nil
}

const examText = `UNIVERSITY OF EXAMPLE
COURSE CODE: ECON310
TOTAL MARKS: 120
DATE: 10/05/2024

1. Define elasticity of demand and explain its determinants. (10 pts)

2. a) State the law of diminishing marginal utility. (5 marks) b) Give a worked example of it from consumer behavior. (5 marks)

3. Calculate the equilibrium price given Qd = 100 - 2P and Qs = 3P. (10 pts)`

func examResult() *extract.Result {
	pages := []string{examText}
	return &extract.Result{
		Pages:   pages,
		Text:    examText,
		Method:  "pdftext",
		Success: true,
		Stats:   extract.ComputeStats(examText),
	}
}

func TestProcessFullDocument(t *testing.T) {
	p := New(Options{Extractor: &stubExtractor{
		results: map[string]*extract.Result{"/in/ECON310_final.pdf": examResult()},
	}})

	exam, outcome := p.Process(context.Background(), "/in/ECON310_final.pdf")

	if !outcome.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if exam.CourseCode != "ECON310" {
		t.Errorf("course code = %q", exam.CourseCode)
	}
	if exam.Cover == nil || exam.Cover.TotalMarks == nil || *exam.Cover.TotalMarks != 120 {
		t.Fatalf("cover = %+v", exam.Cover)
	}
	if len(exam.Questions) == 0 {
		t.Fatal("no questions survived")
	}
	if exam.TextStats == nil || exam.TextStats.Words == 0 {
		t.Errorf("text stats = %+v", exam.TextStats)
	}

	subs := 0
	for _, q := range exam.Questions {
		if q.ID == "" {
			t.Error("question missing id")
		}
		if q.IsSubQuestion {
			subs++
			if q.ParentQuestionNumber == nil || *q.ParentQuestionNumber != 2 {
				t.Errorf("sub parent = %v, want 2", q.ParentQuestionNumber)
			}
			if q.Marks == nil || q.DifficultyScore == nil {
				t.Errorf("sub-question unscored: %+v", q)
			}
		}
	}
	if subs != 2 {
		t.Errorf("sub-questions = %d, want 2", subs)
	}
	if outcome.Difficulty.MarksSource != "cover_page" {
		t.Errorf("marks source = %q", outcome.Difficulty.MarksSource)
	}
}

func TestEncryptedDocumentContributesNothing(t *testing.T) {
	p := New(Options{Extractor: &stubExtractor{
		errs: map[string]error{"/in/locked.pdf": &extract.Error{
			Kind:     extract.KindEncrypted,
			Attempts: []extract.AttemptError{{Method: "pdfinfo", Kind: extract.KindEncrypted, Message: "password protected"}},
		}},
	}})

	exam, outcome := p.Process(context.Background(), "/in/locked.pdf")

	if outcome.Success {
		t.Fatal("encrypted document reported success")
	}
	if len(exam.Questions) != 0 {
		t.Errorf("questions = %d, want 0", len(exam.Questions))
	}
	if outcome.ErrorKind != string(extract.KindEncrypted) {
		t.Errorf("kind = %q, want encrypted", outcome.ErrorKind)
	}
	if exam.ErrorKind != string(extract.KindEncrypted) {
		t.Errorf("exam kind = %q", exam.ErrorKind)
	}
}

func TestNoQuestionsFound(t *testing.T) {
	p := New(Options{Extractor: &stubExtractor{
		results: map[string]*extract.Result{"/in/blankish.pdf": {
			Pages:   []string{"Random notes without any recognizable structure or meaning."},
			Text:    "zz qq xx vv bb nn mm pp",
			Method:  "pdftext",
			Success: true,
		}},
	}})

	_, outcome := p.Process(context.Background(), "/in/blankish.pdf")

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.ErrorKind != KindNoQuestions {
		t.Errorf("kind = %q, want %q", outcome.ErrorKind, KindNoQuestions)
	}
}

func TestProcessBatchSummary(t *testing.T) {
	p := New(Options{Extractor: &stubExtractor{
		results: map[string]*extract.Result{"/in/good.pdf": examResult()},
		errs: map[string]error{"/in/locked.pdf": &extract.Error{
			Kind:     extract.KindEncrypted,
			Attempts: []extract.AttemptError{{Method: "pdfinfo", Kind: extract.KindEncrypted, Message: "password protected"}},
		}},
	}})

	results, summary := p.ProcessBatch(context.Background(), []string{"/in/good.pdf", "/in/locked.pdf"}, 2)

	if summary.Processed != 2 || summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.FailuresByKind["encrypted"] != 1 {
		t.Errorf("failures by kind = %v", summary.FailuresByKind)
	}
	if results[0] == nil || !results[0].ExtractionSuccess {
		t.Error("first document should have succeeded")
	}
	if results[1] == nil || results[1].ExtractionSuccess {
		t.Error("second document should carry the failure record")
	}
	if summary.TotalQuestions == 0 {
		t.Error("total questions not aggregated")
	}
}
