package exams

import (
	"context"
	"io"
	"strings"

	"examcorpus-backend/internal/shared/storage/object"
)

// Processor runs the document pipeline on a stored PDF. It is
// implemented by the pipeline package and wired in bootstrap; the exam
// record comes back even when processing failed, carrying the error
// kind, so failed documents stay visible.
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*Exam, error)
}

// Service contains business logic for exams.
type Service struct {
	Store     object.ObjectStore
	Repo      ExamsRepo
	Processor Processor
}

const storageNamespace = "exams"

// UploadAndProcess stores the PDF, runs the full pipeline on it and
// persists the resulting exam. A pipeline failure is not a service
// error: the failed exam record is persisted and returned so the
// caller sees the error kind.
func (s *Service) UploadAndProcess(ctx context.Context, fileName string, r io.Reader) (Exam, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || !strings.EqualFold(extOf(fileName), ".pdf") {
		return Exam{}, ErrInvalidInput
	}

	storageKey, _, _, err := s.Store.Save(ctx, storageNamespace, fileName, r)
	if err != nil {
		return Exam{}, err
	}
	path, err := s.Store.Path(storageKey)
	if err != nil {
		return Exam{}, err
	}

	exam, _ := s.Processor.ProcessFile(ctx, path)
	exam.Filename = fileName
	exam.StorageKey = storageKey

	if err := s.Repo.Create(ctx, *exam); err != nil {
		return Exam{}, err
	}
	return *exam, nil
}

// Get returns one exam with questions.
func (s *Service) Get(ctx context.Context, examID string) (Exam, error) {
	if examID == "" {
		return Exam{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, examID)
}

// List returns exams, optionally filtered by course code.
func (s *Service) List(ctx context.Context, courseCode string, limit, offset int) ([]Exam, error) {
	return s.Repo.List(ctx, strings.ToUpper(strings.TrimSpace(courseCode)), limit, offset)
}

// Questions returns one exam's question units.
func (s *Service) Questions(ctx context.Context, examID string) ([]QuestionUnit, error) {
	if examID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListQuestions(ctx, examID)
}

func extOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
