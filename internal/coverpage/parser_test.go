package coverpage

import (
	"math"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func TestParseFullCoverPage(t *testing.T) {
	p := NewParser()
	p.Now = fixedNow

	text := `UNIVERSITY OF EXAMPLE
FACULTY OF ENGINEERING
COURSE CODE: MATH 201
COURSE NAME: Linear Algebra and Applications
PROFESSOR: Jane Smith
DATE: 15/04/2024
TOTAL MARKS: 120
`

	meta := p.Parse(text)

	if meta.CourseCode != "MATH201" {
		t.Errorf("course code = %q, want MATH201", meta.CourseCode)
	}
	if meta.CourseName != "Linear Algebra and Applications" {
		t.Errorf("course name = %q", meta.CourseName)
	}
	if meta.Faculty != "ENGINEERING" {
		t.Errorf("faculty = %q", meta.Faculty)
	}
	if meta.Professor != "Jane Smith" {
		t.Errorf("professor = %q", meta.Professor)
	}
	if meta.TotalMarks == nil || *meta.TotalMarks != 120 {
		t.Errorf("total marks = %v, want 120", meta.TotalMarks)
	}
	if meta.Date == nil {
		t.Fatal("expected date")
	}
	if meta.Date.Year != 2024 || meta.Date.Month != 4 || meta.Date.Day != 15 {
		t.Errorf("date = %d-%d-%d", meta.Date.Year, meta.Date.Month, meta.Date.Day)
	}
	if got, want := meta.Date.RelevanceScore, 0.9; math.Abs(got-want) > 1e-9 {
		t.Errorf("relevance = %v, want %v", got, want)
	}
}

func TestTotalMarksOutOfRangeDiscarded(t *testing.T) {
	p := NewParser()

	for _, tc := range []struct {
		name string
		text string
		want *float64
	}{
		{"too small", "TOTAL MARKS: 5", nil},
		{"too large", "TOTAL MARKS: 450", nil},
		{"lower bound", "TOTAL MARKS: 10", ptr(10.0)},
		{"upper bound", "TOTAL MARKS: 300", ptr(300.0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Parse(tc.text).TotalMarks
			switch {
			case tc.want == nil && got != nil:
				t.Errorf("got %v, want nil", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Errorf("got %v, want %v", got, *tc.want)
			}
		})
	}
}

func TestCourseCodeValidation(t *testing.T) {
	p := NewParser()

	for _, tc := range []struct {
		text string
		want string
	}{
		{"COURSE: ECON 310", "ECON310"},
		{"Final Exam CS101", "CS101"},
		{"COURSE: ABCDEF 123", ""}, // too many letters
		{"COURSE: A 123", ""},      // too few letters
		{"no code here", ""},
	} {
		if got := p.CourseCode(tc.text); got != tc.want {
			t.Errorf("CourseCode(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDateCascade(t *testing.T) {
	p := NewParser()
	p.Now = fixedNow

	t.Run("season", func(t *testing.T) {
		d := p.Parse("Final Examination Fall 2022").Date
		if d == nil {
			t.Fatal("expected date")
		}
		if d.Year != 2022 || d.Month != int(time.October) {
			t.Errorf("got %d-%d", d.Year, d.Month)
		}
	})

	t.Run("bare year", func(t *testing.T) {
		d := p.Parse("Examination paper 2019 session").Date
		if d == nil {
			t.Fatal("expected date")
		}
		if d.Year != 2019 || d.Month != 1 || d.Day != 1 {
			t.Errorf("got %d-%d-%d", d.Year, d.Month, d.Day)
		}
	})

	t.Run("month name", func(t *testing.T) {
		d := p.Parse("Held on 12 March 2023").Date
		if d == nil {
			t.Fatal("expected date")
		}
		if d.Year != 2023 || d.Month != 3 || d.Day != 12 {
			t.Errorf("got %d-%d-%d", d.Year, d.Month, d.Day)
		}
	})
}

func TestRelevanceClamped(t *testing.T) {
	p := NewParser()
	p.Now = fixedNow

	if got := p.relevance(1995); got != 0 {
		t.Errorf("ancient exam relevance = %v, want 0", got)
	}
	if got := p.relevance(2026); got != 1 {
		t.Errorf("current year relevance = %v, want 1", got)
	}
}

func TestParseEmptyText(t *testing.T) {
	meta := NewParser().Parse("   \n  ")
	if meta.CourseCode != "" || meta.TotalMarks != nil || meta.Date != nil {
		t.Errorf("expected zero metadata, got %+v", meta)
	}
}

func ptr(f float64) *float64 { return &f }
