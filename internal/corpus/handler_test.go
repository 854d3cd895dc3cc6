package corpus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"examcorpus-backend/internal/exams"
)

func corpusRouter(repo exams.ExamsRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestImportThenExport(t *testing.T) {
	repo := exams.NewMemoryRepo()
	router := corpusRouter(repo)

	body := `{"exams": [{"filename": "ECON310_final.pdf", "course_code": "ECON310", "questions": [{"question_number": 1, "text": "Define elasticity.", "question_type": "short_answer"}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/corpus/import", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/corpus/export", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	var doc Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Stats.Exams != 1 || doc.Stats.Questions != 1 {
		t.Errorf("stats = %+v", doc.Stats)
	}
	if doc.Exams[0].Questions[0].ID == "" {
		t.Error("imported question missing assigned id")
	}
}

func TestImportFlatQuestions(t *testing.T) {
	repo := exams.NewMemoryRepo()
	router := corpusRouter(repo)

	body := `{"questions": [{"question_number": 1, "text": "State the law of demand."}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/corpus/import", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	list, err := repo.ListAll(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("exams = %d, err = %v", len(list), err)
	}
	if list[0].Filename != SyntheticFilename {
		t.Errorf("filename = %q", list[0].Filename)
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	router := corpusRouter(exams.NewMemoryRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/corpus/import", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	repo := exams.NewMemoryRepo()
	marks := 10.0
	repo.Create(context.Background(), exams.Exam{
		ID: "e1", Filename: "a.pdf", CourseCode: "MATH201", CreatedAt: time.Now().UTC(),
		Questions: []exams.QuestionUnit{{ID: "q1", Text: "Prove it.", Type: exams.TypeEssay, Marks: &marks}},
	})
	router := corpusRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/corpus/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.WithMarks != 1 || stats.ByCourse["MATH201"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
