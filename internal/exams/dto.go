package exams

import "time"

// ExamResponse is the outward-facing representation of a processed
// exam. Question text is omitted from list views; the questions
// endpoint serves the full units.
type ExamResponse struct {
	ExamID            string    `json:"examId"`
	Filename          string    `json:"filename"`
	CourseCode        string    `json:"courseCode,omitempty"`
	CourseName        string    `json:"courseName,omitempty"`
	Faculty           string    `json:"faculty,omitempty"`
	Professor         string    `json:"professor,omitempty"`
	TotalMarks        *float64  `json:"totalMarks,omitempty"`
	ExamDate          string    `json:"examDate,omitempty"`
	RelevanceScore    *float64  `json:"relevanceScore,omitempty"`
	ExtractionMethod  string    `json:"extractionMethod,omitempty"`
	OCRLanguage       string    `json:"ocrLanguage,omitempty"`
	ExtractionSuccess bool      `json:"extractionSuccess"`
	ErrorKind         string    `json:"errorKind,omitempty"`
	QuestionCount     int       `json:"questionCount"`
	ProcessedAt       time.Time `json:"processedAt"`
}

func toResponse(exam Exam) ExamResponse {
	resp := ExamResponse{
		ExamID:            exam.ID,
		Filename:          exam.Filename,
		CourseCode:        exam.CourseCode,
		ExtractionMethod:  exam.ExtractionMethod,
		OCRLanguage:       exam.OCRLanguage,
		ExtractionSuccess: exam.ExtractionSuccess,
		ErrorKind:         exam.ErrorKind,
		QuestionCount:     len(exam.Questions),
		ProcessedAt:       exam.CreatedAt,
	}
	if cover := exam.Cover; cover != nil {
		resp.CourseName = cover.CourseName
		resp.Faculty = cover.Faculty
		resp.Professor = cover.Professor
		resp.TotalMarks = cover.TotalMarks
		if cover.Date != nil {
			resp.ExamDate = cover.Date.DateString
			score := cover.Date.RelevanceScore
			resp.RelevanceScore = &score
		}
	}
	return resp
}
