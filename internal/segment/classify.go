package segment

import (
	"regexp"
	"strings"

	"examcorpus-backend/internal/exams"
)

// Length gates for the type cascade. The same verb ("explain") shows up
// in one-line prompts and multi-paragraph essay questions; length is
// what tells them apart.
const (
	numericalMaxLen   = 200
	essayMinLen       = 150
	shortAnswerMaxLen = 200
)

var (
	trueFalseRe = regexp.MustCompile(`(?i)\b(true\s+(?:or|/)\s*false|true/false|t/f|state\s+whether)\b`)
	digitRe     = regexp.MustCompile(`\d`)

	calcVerbRe  = regexp.MustCompile(`(?i)\b(calculate|compute|solve|determine|find\s+the|evaluate|how\s+many|how\s+much)\b`)
	essayVerbRe = regexp.MustCompile(`(?i)\b(discuss|explain|describe|analy[sz]e|compare|contrast|critically|justify|elaborate|assess)\b`)
	interrogRe  = regexp.MustCompile(`(?i)^(what|why|how|when|where|which|who|name|list|state|define|give)\b|\?`)

	// Option marker forms. The dotted form is line-anchored; inline
	// "a." would match ordinary abbreviations.
	optionParenRe = regexp.MustCompile(`(?:^|\s)\(?([A-Ha-h])\)\s+`)
	optionDotRe   = regexp.MustCompile(`(?m)^[ \t]*([A-Ha-h])\.[ \t]+`)
)

type unitFacts struct {
	text    string
	length  int
	options []string
}

// typeCascade is evaluated top to bottom; the first predicate that
// holds decides the label.
var typeCascade = []struct {
	qtype exams.QuestionType
	match func(f unitFacts) bool
}{
	{exams.TypeMultipleChoice, func(f unitFacts) bool {
		return len(f.options) >= 2
	}},
	{exams.TypeTrueFalse, func(f unitFacts) bool {
		return trueFalseRe.MatchString(f.text)
	}},
	{exams.TypeNumerical, func(f unitFacts) bool {
		return f.length < numericalMaxLen && digitRe.MatchString(f.text) && calcVerbRe.MatchString(f.text)
	}},
	{exams.TypeEssay, func(f unitFacts) bool {
		return f.length > essayMinLen && essayVerbRe.MatchString(f.text)
	}},
	{exams.TypeShortAnswer, func(f unitFacts) bool {
		return f.length < shortAnswerMaxLen && interrogRe.MatchString(f.text)
	}},
	{exams.TypeOther, func(unitFacts) bool { return true }},
}

// Classify labels every unit in place and attaches any extracted
// multiple-choice options.
func Classify(questions []exams.QuestionUnit) {
	for i := range questions {
		q := &questions[i]
		f := unitFacts{
			text:    q.Text,
			length:  len(q.Text),
			options: ExtractOptions(q.Text),
		}
		for _, rule := range typeCascade {
			if rule.match(f) {
				q.Type = rule.qtype
				break
			}
		}
		if q.Type == exams.TypeMultipleChoice {
			q.Options = f.options
		}
	}
}

type optionMarker struct {
	pos    int
	end    int
	letter byte
}

// ExtractOptions pulls option texts out of a unit when its markers form
// a run of consecutive letters starting at A (or a). Anything else is
// treated as incidental lettering, not an option list.
func ExtractOptions(text string) []string {
	var markers []optionMarker
	for _, m := range optionParenRe.FindAllStringSubmatchIndex(text, -1) {
		markers = append(markers, optionMarker{pos: m[0], end: m[1], letter: lowerByte(text[m[2]])})
	}
	for _, m := range optionDotRe.FindAllStringSubmatchIndex(text, -1) {
		markers = append(markers, optionMarker{pos: m[0], end: m[1], letter: lowerByte(text[m[2]])})
	}
	if len(markers) < 2 {
		return nil
	}

	sortMarkers(markers)
	if markers[0].letter != 'a' {
		return nil
	}
	for i := 1; i < len(markers); i++ {
		if markers[i].letter != markers[i-1].letter+1 {
			return nil
		}
	}

	options := make([]string, 0, len(markers))
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].pos
		}
		opt := strings.TrimSpace(text[m.end:end])
		if opt != "" {
			options = append(options, opt)
		}
	}
	return options
}

func sortMarkers(markers []optionMarker) {
	for i := 1; i < len(markers); i++ {
		for j := i; j > 0 && markers[j].pos < markers[j-1].pos; j-- {
			markers[j], markers[j-1] = markers[j-1], markers[j]
		}
	}
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
