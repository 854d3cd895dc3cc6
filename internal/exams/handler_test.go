package exams

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"examcorpus-backend/internal/shared/storage/object/local"
)

type stubProcessor struct {
	exam *Exam
}

func (s *stubProcessor) ProcessFile(ctx context.Context, path string) (*Exam, error) {
	cp := *s.exam
	return &cp, nil
}

func testRouter(t *testing.T, processor Processor) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	svc := &Service{
		Store:     local.New(t.TempDir()),
		Repo:      repo,
		Processor: processor,
	}

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func processedExam() *Exam {
	marks := 10.0
	score := 0.1
	return &Exam{
		ID:                "exam-1",
		CourseCode:        "ECON310",
		ExtractionMethod:  "pdftext",
		ExtractionSuccess: true,
		CreatedAt:         time.Now().UTC(),
		Questions: []QuestionUnit{
			{ID: "q-1", QuestionNumber: 1, Text: "Define elasticity of demand.", Type: TypeShortAnswer, Marks: &marks, DifficultyScore: &score},
		},
	}
}

func multipartPDF(t *testing.T, field, name string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("%PDF-1.4 test content"))
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadProcessesAndPersists(t *testing.T) {
	router, repo := testRouter(t, &stubProcessor{exam: processedExam()})

	body, contentType := multipartPDF(t, "file", "ECON310_final.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ExamResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "ECON310_final.pdf" || resp.QuestionCount != 1 {
		t.Errorf("resp = %+v", resp)
	}

	stored, err := repo.GetByID(context.Background(), "exam-1")
	if err != nil {
		t.Fatalf("exam not persisted: %v", err)
	}
	if stored.StorageKey == "" {
		t.Error("storage key not recorded")
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router, _ := testRouter(t, &stubProcessor{exam: processedExam()})

	body, contentType := multipartPDF(t, "file", "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	router, _ := testRouter(t, &stubProcessor{exam: processedExam()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetExamNotFound(t *testing.T) {
	router, _ := testRouter(t, &stubProcessor{exam: processedExam()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exams/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListFiltersByCourse(t *testing.T) {
	router, repo := testRouter(t, &stubProcessor{exam: processedExam()})
	ctx := context.Background()
	repo.Create(ctx, Exam{ID: "e1", CourseCode: "ECON310", CreatedAt: time.Now().UTC()})
	repo.Create(ctx, Exam{ID: "e2", CourseCode: "MATH201", CreatedAt: time.Now().UTC()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exams?course=math201", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp []ExamResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].CourseCode != "MATH201" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestQuestionsEndpoint(t *testing.T) {
	router, repo := testRouter(t, &stubProcessor{exam: processedExam()})
	exam := processedExam()
	repo.Create(context.Background(), *exam)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exams/exam-1/questions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var questions []QuestionUnit
	if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 1 || questions[0].Type != TypeShortAnswer {
		t.Errorf("questions = %+v", questions)
	}
}
