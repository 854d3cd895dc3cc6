package exams

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of ExamsRepo, used in dev
// mode and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]Exam
	order []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Exam)}
}

// Create stores an exam with its questions.
func (r *MemoryRepo) Create(ctx context.Context, exam Exam) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[exam.ID]; !exists {
		r.order = append(r.order, exam.ID)
	}
	r.byID[exam.ID] = exam
	return nil
}

// GetByID returns one exam with its questions.
func (r *MemoryRepo) GetByID(ctx context.Context, examID string) (Exam, error) {
	if err := ctx.Err(); err != nil {
		return Exam{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	exam, ok := r.byID[examID]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return exam, nil
}

// List returns exams newest-first, optionally filtered by course code.
func (r *MemoryRepo) List(ctx context.Context, courseCode string, limit, offset int) ([]Exam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	all := make([]Exam, 0, len(r.byID))
	for _, id := range r.order {
		exam := r.byID[id]
		if courseCode != "" && exam.CourseCode != courseCode {
			continue
		}
		all = append(all, exam)
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []Exam{}, nil
	}
	end := len(all)
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// ListQuestions returns one exam's questions.
func (r *MemoryRepo) ListQuestions(ctx context.Context, examID string) ([]QuestionUnit, error) {
	exam, err := r.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	return exam.Questions, nil
}

// ListAll returns every exam in insertion order.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Exam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Exam, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

var _ ExamsRepo = (*MemoryRepo)(nil)
