// Package coverpage extracts course and exam metadata from the first page
// of an exam PDF. Each field runs an ordered regex cascade, most specific
// first; the first match that passes validation wins.
package coverpage

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"examcorpus-backend/internal/exams"
)

// Parser extracts cover-page metadata fields.
type Parser struct {
	// Now is injectable so relevance scoring is deterministic in tests.
	Now func() time.Time

	courseCodePatterns []*regexp.Regexp
	courseNamePatterns []*regexp.Regexp
	facultyPatterns    []*regexp.Regexp
	professorPatterns  []*regexp.Regexp
	totalMarksPatterns []*regexp.Regexp
	datePatterns       []*regexp.Regexp
}

var courseCodeShape = regexp.MustCompile(`^[A-Z]{2,4}\d{3,4}$`)

// NewParser compiles the field cascades.
func NewParser() *Parser {
	return &Parser{
		Now: time.Now,
		courseCodePatterns: compileAll(
			`(?im)COURSE\s*(?:CODE|NUMBER|NUM)?\s*:?\s*([A-Z]{2,4}\s*\d{3,4})`,
			`(?m)\b([A-Z]{2,4}\s*\d{3,4})\b`,
		),
		courseNamePatterns: compileAll(
			`(?im)COURSE\s*NAME\s*:?\s*(.+?)(?:\n|Course|Instructor|Professor|Total|$)`,
			`(?im)Course\s*:\s*(.+?)(?:\n|Instructor|Professor|Total|$)`,
		),
		facultyPatterns: compileAll(
			`(?im)FACULTY\s*(?:OF|:)\s*(.+?)(?:\n|Department|School|Course|$)`,
			`(?im)DEPARTMENT\s*(?:OF|:)\s*(.+?)(?:\n|Faculty|School|Course|$)`,
			`(?im)SCHOOL\s*(?:OF|:)\s*(.+?)(?:\n|Faculty|Department|Course|$)`,
		),
		professorPatterns: compileAll(
			`(?im)PROFESSOR\s*:?\s*(.+?)(?:\n|Instructor|Course|Total|$)`,
			`(?im)INSTRUCTOR\s*:?\s*(.+?)(?:\n|Professor|Course|Total|$)`,
			`(?im)Prof\.\s*(.+?)(?:\n|Instructor|Course|Total|$)`,
			`(?im)Dr\.\s*(.+?)(?:\n|Instructor|Course|Total|$)`,
		),
		totalMarksPatterns: compileAll(
			`(?im)TOTAL\s+MARKS?\s*:?\s*(\d+(?:\.\d+)?)`,
			`(?im)(\d+(?:\.\d+)?)\s+marks?\s+total`,
			`(?im)Total\s*:\s*(\d+(?:\.\d+)?)\s+marks?`,
			`(?im)(\d+(?:\.\d+)?)\s+points?\s+total`,
		),
		datePatterns: compileAll(
			`(?im)(?:EXAMINATION\s+)?DATE\s*:?\s*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
			`(?im)(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{2,4})`,
			`(?im)((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{2,4})`,
			`(?im)((?:Fall|Spring|Summer|Winter)\s+\d{4})`,
			`(?m)\b((?:19|20)\d{2})\b`,
		),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Parse extracts all cover fields from first-page text. Fields that fail
// their validator stay unset rather than carrying noise forward.
func (p *Parser) Parse(firstPageText string) exams.CoverMetadata {
	meta := exams.CoverMetadata{}
	if strings.TrimSpace(firstPageText) == "" {
		return meta
	}

	meta.CourseCode = p.CourseCode(firstPageText)
	meta.CourseName = p.courseName(firstPageText)
	meta.Faculty = p.faculty(firstPageText)
	meta.Professor = p.professor(firstPageText)
	meta.TotalMarks = p.totalMarks(firstPageText)
	meta.Date = p.date(firstPageText)
	return meta
}

// CourseCode extracts and validates a course code like ECON310.
func (p *Parser) CourseCode(text string) string {
	for _, re := range p.courseCodePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			code := strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
			if courseCodeShape.MatchString(code) {
				return code
			}
		}
	}
	return ""
}

func (p *Parser) courseName(text string) string {
	for _, re := range p.courseNamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 5 && !isAllDigits(name) {
				return name
			}
		}
	}
	return ""
}

func (p *Parser) faculty(text string) string {
	for _, re := range p.facultyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			faculty := strings.TrimSpace(m[1])
			if len(faculty) > 3 {
				return faculty
			}
		}
	}
	return ""
}

func (p *Parser) professor(text string) string {
	for _, re := range p.professorPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			prof := strings.TrimSpace(m[1])
			if len(prof) > 2 && !isAllDigits(prof) {
				// Cap to five words; trailing cover-page noise is common.
				words := strings.Fields(prof)
				if len(words) > 5 {
					words = words[:5]
				}
				return strings.Join(words, " ")
			}
		}
	}
	return ""
}

// totalMarks returns the cover total only when it falls in the sane exam
// range [10,300]; values outside are extraction noise and are discarded,
// never clamped.
func (p *Parser) totalMarks(text string) *float64 {
	for _, re := range p.totalMarksPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			marks, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if marks >= 10 && marks <= 300 {
				return &marks
			}
		}
	}
	return nil
}

func (p *Parser) date(text string) *exams.DateInfo {
	for _, re := range p.datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			dateStr := strings.TrimSpace(m[1])
			parsed, ok := parseDate(dateStr)
			if !ok {
				continue
			}
			return &exams.DateInfo{
				DateString:     dateStr,
				Year:           parsed.Year(),
				Month:          int(parsed.Month()),
				Day:            parsed.Day(),
				Parsed:         parsed,
				RelevanceScore: p.relevance(parsed.Year()),
			}
		}
	}
	return nil
}

// relevance is 1 for the current year decaying linearly to 0 at 20 years.
func (p *Parser) relevance(year int) float64 {
	yearsOld := float64(p.Now().Year() - year)
	score := 1.0 - yearsOld/20.0
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func isAllDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
