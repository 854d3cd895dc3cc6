package exams

import "context"

// ExamsRepo defines persistence operations for processed exams and
// their questions.
type ExamsRepo interface {
	Create(ctx context.Context, exam Exam) error
	GetByID(ctx context.Context, examID string) (Exam, error)
	List(ctx context.Context, courseCode string, limit, offset int) ([]Exam, error)
	ListQuestions(ctx context.Context, examID string) ([]QuestionUnit, error)
	ListAll(ctx context.Context) ([]Exam, error)
}
