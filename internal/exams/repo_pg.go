package exams

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements ExamsRepo using Postgres. Exam and question rows
// are written in one transaction so a half-inserted exam never shows up
// in the corpus.
type PGRepo struct {
	DB *sql.DB
}

const insertExamQuery = `
INSERT INTO exams (
    id,
    filename,
    course_code,
    course_name,
    faculty,
    professor,
    total_marks,
    exam_date,
    exam_year,
    exam_month,
    exam_day,
    relevance_score,
    extraction_method,
    ocr_language,
    extraction_success,
    error_kind,
    error_detail,
    text_length,
    text_stats,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

const insertQuestionQuery = `
INSERT INTO questions (
    id,
    exam_id,
    question_number,
    text,
    question_type,
    is_sub_question,
    parent_question_number,
    marks,
    difficulty_score,
    topics,
    options,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const selectExamColumns = `
id, filename, course_code, course_name, faculty, professor, total_marks,
exam_date, exam_year, exam_month, exam_day, relevance_score,
extraction_method, ocr_language, extraction_success, error_kind,
error_detail, text_length, text_stats, storage_key, created_at`

const selectQuestionColumns = `
id, exam_id, question_number, text, question_type, is_sub_question,
parent_question_number, marks, difficulty_score, topics, options`

// Create inserts an exam with all its questions.
func (r *PGRepo) Create(ctx context.Context, exam Exam) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		courseName sql.NullString
		faculty    sql.NullString
		professor  sql.NullString
		totalMarks sql.NullFloat64
		examDate   sql.NullString
		examYear   sql.NullInt64
		examMonth  sql.NullInt64
		examDay    sql.NullInt64
		relevance  sql.NullFloat64
	)
	if cover := exam.Cover; cover != nil {
		courseName = nullString(cover.CourseName)
		faculty = nullString(cover.Faculty)
		professor = nullString(cover.Professor)
		if cover.TotalMarks != nil {
			totalMarks = sql.NullFloat64{Float64: *cover.TotalMarks, Valid: true}
		}
		if d := cover.Date; d != nil {
			examDate = nullString(d.DateString)
			examYear = sql.NullInt64{Int64: int64(d.Year), Valid: d.Year != 0}
			examMonth = sql.NullInt64{Int64: int64(d.Month), Valid: d.Month != 0}
			examDay = sql.NullInt64{Int64: int64(d.Day), Valid: d.Day != 0}
			relevance = sql.NullFloat64{Float64: d.RelevanceScore, Valid: true}
		}
	}

	var textStats []byte
	if exam.TextStats != nil {
		textStats, err = json.Marshal(exam.TextStats)
		if err != nil {
			return fmt.Errorf("encode text stats: %w", err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		insertExamQuery,
		exam.ID,
		exam.Filename,
		nullString(exam.CourseCode),
		courseName,
		faculty,
		professor,
		totalMarks,
		examDate,
		examYear,
		examMonth,
		examDay,
		relevance,
		nullString(exam.ExtractionMethod),
		nullString(exam.OCRLanguage),
		exam.ExtractionSuccess,
		nullString(exam.ErrorKind),
		nullString(exam.ErrorDetail),
		exam.TextLength,
		textStats,
		nullString(exam.StorageKey),
		exam.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}

	for _, q := range exam.Questions {
		topics, err := json.Marshal(emptyIfNil(q.Topics))
		if err != nil {
			return err
		}
		options, err := json.Marshal(emptyIfNil(q.Options))
		if err != nil {
			return err
		}

		var parent sql.NullInt64
		if q.ParentQuestionNumber != nil {
			parent = sql.NullInt64{Int64: int64(*q.ParentQuestionNumber), Valid: true}
		}
		var marks sql.NullFloat64
		if q.Marks != nil {
			marks = sql.NullFloat64{Float64: *q.Marks, Valid: true}
		}
		var score sql.NullFloat64
		if q.DifficultyScore != nil {
			score = sql.NullFloat64{Float64: *q.DifficultyScore, Valid: true}
		}

		if _, err := tx.ExecContext(
			ctx,
			insertQuestionQuery,
			q.ID,
			exam.ID,
			q.QuestionNumber,
			q.Text,
			q.Type,
			q.IsSubQuestion,
			parent,
			marks,
			score,
			topics,
			options,
			exam.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert question %d: %w", q.QuestionNumber, err)
		}
	}

	return tx.Commit()
}

// GetByID fetches one exam with its questions.
func (r *PGRepo) GetByID(ctx context.Context, examID string) (Exam, error) {
	query := `SELECT ` + selectExamColumns + ` FROM exams WHERE id = $1 LIMIT 1`
	exam, err := scanExam(r.DB.QueryRowContext(ctx, query, examID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}

	questions, err := r.ListQuestions(ctx, examID)
	if err != nil {
		return Exam{}, err
	}
	exam.Questions = questions
	return exam, nil
}

// List returns exams newest-first, optionally filtered by course code.
// Questions are not loaded; use GetByID for the full record.
func (r *PGRepo) List(ctx context.Context, courseCode string, limit, offset int) ([]Exam, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + selectExamColumns + ` FROM exams`
	args := []any{}
	if courseCode != "" {
		query += ` WHERE course_code = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, courseCode, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exam)
	}
	return out, rows.Err()
}

// ListQuestions returns an exam's questions in question order.
func (r *PGRepo) ListQuestions(ctx context.Context, examID string) ([]QuestionUnit, error) {
	query := `SELECT ` + selectQuestionColumns + ` FROM questions WHERE exam_id = $1 ORDER BY question_number, id`

	rows, err := r.DB.QueryContext(ctx, query, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuestionUnit
	for rows.Next() {
		var (
			q       QuestionUnit
			examRef string
			parent  sql.NullInt64
			marks   sql.NullFloat64
			score   sql.NullFloat64
			topics  []byte
			options []byte
		)
		if err := rows.Scan(
			&q.ID,
			&examRef,
			&q.QuestionNumber,
			&q.Text,
			&q.Type,
			&q.IsSubQuestion,
			&parent,
			&marks,
			&score,
			&topics,
			&options,
		); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := int(parent.Int64)
			q.ParentQuestionNumber = &p
		}
		if marks.Valid {
			m := marks.Float64
			q.Marks = &m
		}
		if score.Valid {
			s := score.Float64
			q.DifficultyScore = &s
		}
		if len(topics) > 0 {
			if err := json.Unmarshal(topics, &q.Topics); err != nil {
				return nil, fmt.Errorf("decode topics: %w", err)
			}
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options: %w", err)
			}
		}
		q.Length = len(q.Text)
		out = append(out, q)
	}
	return out, rows.Err()
}

// ListAll returns every exam with its questions, for corpus export.
func (r *PGRepo) ListAll(ctx context.Context) ([]Exam, error) {
	query := `SELECT ` + selectExamColumns + ` FROM exams ORDER BY created_at`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		questions, err := r.ListQuestions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Questions = questions
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (Exam, error) {
	var (
		exam       Exam
		courseCode sql.NullString
		courseName sql.NullString
		faculty    sql.NullString
		professor  sql.NullString
		totalMarks sql.NullFloat64
		examDate   sql.NullString
		examYear   sql.NullInt64
		examMonth  sql.NullInt64
		examDay    sql.NullInt64
		relevance  sql.NullFloat64
		method     sql.NullString
		ocrLang    sql.NullString
		errorKind  sql.NullString
		errorMsg   sql.NullString
		textStats  []byte
		storageKey sql.NullString
	)
	if err := row.Scan(
		&exam.ID,
		&exam.Filename,
		&courseCode,
		&courseName,
		&faculty,
		&professor,
		&totalMarks,
		&examDate,
		&examYear,
		&examMonth,
		&examDay,
		&relevance,
		&method,
		&ocrLang,
		&exam.ExtractionSuccess,
		&errorKind,
		&errorMsg,
		&exam.TextLength,
		&textStats,
		&storageKey,
		&exam.CreatedAt,
	); err != nil {
		return Exam{}, err
	}

	if len(textStats) > 0 {
		stats := &TextStats{}
		if err := json.Unmarshal(textStats, stats); err != nil {
			return Exam{}, fmt.Errorf("decode text stats: %w", err)
		}
		exam.TextStats = stats
	}

	exam.CourseCode = courseCode.String
	exam.ExtractionMethod = method.String
	exam.OCRLanguage = ocrLang.String
	exam.ErrorKind = errorKind.String
	exam.ErrorDetail = errorMsg.String
	exam.StorageKey = storageKey.String

	if courseName.Valid || faculty.Valid || professor.Valid || totalMarks.Valid || examDate.Valid {
		cover := &CoverMetadata{
			CourseCode: exam.CourseCode,
			CourseName: courseName.String,
			Faculty:    faculty.String,
			Professor:  professor.String,
		}
		if totalMarks.Valid {
			t := totalMarks.Float64
			cover.TotalMarks = &t
		}
		if examDate.Valid {
			cover.Date = &DateInfo{
				DateString:     examDate.String,
				Year:           int(examYear.Int64),
				Month:          int(examMonth.Int64),
				Day:            int(examDay.Int64),
				RelevanceScore: relevance.Float64,
			}
		}
		exam.Cover = cover
	}
	return exam, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ ExamsRepo = (*PGRepo)(nil)
