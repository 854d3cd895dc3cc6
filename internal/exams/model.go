package exams

import "time"

// QuestionType labels a question unit. The set is closed; classification
// always resolves to one of these.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeNumerical      QuestionType = "numerical"
	TypeEssay          QuestionType = "essay"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeSubQuestion    QuestionType = "sub_question"
	TypeOther          QuestionType = "other"
)

// QuestionUnit is one segmented question within an exam. Units are ordered;
// sub-questions reference an earlier main question by number.
type QuestionUnit struct {
	ID                   string       `json:"id,omitempty"`
	QuestionNumber       int          `json:"question_number"`
	Text                 string       `json:"text"`
	Type                 QuestionType `json:"question_type"`
	IsSubQuestion        bool         `json:"is_sub_question,omitempty"`
	ParentQuestionNumber *int         `json:"parent_question_number,omitempty"`
	Marks                *float64     `json:"question_marks,omitempty"`
	DifficultyScore      *float64     `json:"difficulty_score,omitempty"`
	Topics               []string     `json:"topics"`
	Options              []string     `json:"options,omitempty"`
	Length               int          `json:"length,omitempty"`
}

// DateInfo is a parsed exam date plus a recency weighting. RelevanceScore
// decays linearly from 1 (current year) to 0 at twenty years old.
type DateInfo struct {
	DateString     string    `json:"date_string"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	Day            int       `json:"day"`
	Parsed         time.Time `json:"parsed_date"`
	RelevanceScore float64   `json:"relevance_score"`
}

// CoverMetadata holds fields parsed from an exam's first page. A field the
// parser could not find stays zero/nil; nothing is fabricated.
type CoverMetadata struct {
	CourseCode string    `json:"course_code,omitempty"`
	CourseName string    `json:"course_name,omitempty"`
	Faculty    string    `json:"faculty,omitempty"`
	Professor  string    `json:"professor,omitempty"`
	TotalMarks *float64  `json:"total_marks,omitempty"`
	Date       *DateInfo `json:"date_info,omitempty"`
}

// TextStats summarizes an exam's extracted text for corpus reporting.
type TextStats struct {
	Characters     int     `json:"characters"`
	Words          int     `json:"words"`
	Sentences      int     `json:"sentences"`
	UniqueWords    int     `json:"unique_words"`
	AvgWordLength  float64 `json:"avg_word_length"`
	AvgSentenceLen float64 `json:"avg_sentence_length"`
}

// Exam aggregates one source document's questions and cover metadata. It is
// the unit of output in the corpus; questions are owned exclusively.
type Exam struct {
	ID                string         `json:"id,omitempty"`
	Filename          string         `json:"filename"`
	CourseCode        string         `json:"course_code,omitempty"`
	Cover             *CoverMetadata `json:"cover,omitempty"`
	ExtractionMethod  string         `json:"extraction_method,omitempty"`
	OCRLanguage       string         `json:"ocr_language,omitempty"`
	ExtractionSuccess bool           `json:"extraction_success"`
	ErrorKind         string         `json:"error_kind,omitempty"`
	ErrorDetail       string         `json:"error_detail,omitempty"`
	TextLength        int            `json:"text_length"`
	TextStats         *TextStats     `json:"text_stats,omitempty"`
	StorageKey        string         `json:"-"`
	Questions         []QuestionUnit `json:"questions"`
	CreatedAt         time.Time      `json:"created_at,omitempty"`
}
