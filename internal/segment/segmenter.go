// Package segment splits extracted exam text into ordered question
// units, links lettered sub-questions to their parent, and labels each
// unit with a question type.
package segment

import (
	"regexp"
	"strings"
)

// Unit is a raw segmented span before linking and classification.
type Unit struct {
	Number      int    // parsed marker number, 0 when the marker carries none
	Label       string // the marker as written: "2", "b", "iv"
	IsSubMarker bool   // span began with a lettered/Roman sub-marker
	Text        string
}

// Marker families in decreasing reliability. A family only applies when
// it matches at least twice: a single hit is more likely a date or a
// page number than a question list.
var numberedFamilies = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*(\d{1,3})\.[ \t]+`),
	regexp.MustCompile(`(?m)^[ \t]*(\d{1,3})\)[ \t]+`),
	regexp.MustCompile(`(?mi)^[ \t]*(?:question|q)\.?[ \t]*(\d{1,3})[.):]?[ \t]+`),
}

var romanFamily = regexp.MustCompile(`(?mi)^[ \t]*\(?([ivxl]{1,6})\)?[.)][ \t]+`)

// Lowercase lettered parts inside a numbered question. Uppercase
// letters are left alone: "A) ... B) ..." is far more often a
// multiple-choice option list than a sub-question list.
var subMarkerRe = regexp.MustCompile(`(?:^|\s)([a-h])\)\s+`)

var questionKeywords = []string{
	"?", "what", "why", "how", "when", "where", "which", "who",
	"explain", "describe", "define", "discuss", "compare", "calculate",
	"solve", "evaluate", "prove", "state", "list", "name",
}

type Segmenter struct {
	minLength int
}

func NewSegmenter(minLength int) *Segmenter {
	if minLength <= 0 {
		minLength = 20
	}
	return &Segmenter{minLength: minLength}
}

// Segment splits document text into ordered raw units. Text before the
// first marker (cover page, instructions) is dropped. Main units with
// empty stems are still emitted so sub-question linking can see their
// number; the cleaner removes them later.
func (s *Segmenter) Segment(text string) []Unit {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	for _, family := range numberedFamilies {
		matches := family.FindAllStringSubmatchIndex(text, -1)
		if len(matches) < 2 {
			continue
		}
		return s.sliceNumbered(text, matches)
	}

	if matches := romanFamily.FindAllStringSubmatchIndex(text, -1); len(matches) >= 2 {
		return s.sliceRoman(text, matches)
	}

	return s.paragraphFallback(text)
}

func (s *Segmenter) sliceNumbered(text string, matches [][]int) []Unit {
	var units []Unit
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		label := text[m[2]:m[3]]
		body := text[m[1]:end]
		units = append(units, s.splitSubMarkers(label, atoi(label), body)...)
	}
	return units
}

// splitSubMarkers breaks "a) ... b) ..." runs inside one numbered span
// into separate sub-marker units. A lone lettered marker is left in
// place; it takes two to look like a parts list.
func (s *Segmenter) splitSubMarkers(label string, number int, body string) []Unit {
	subs := subMarkerRe.FindAllStringSubmatchIndex(body, -1)
	if len(subs) < 2 {
		return []Unit{{Number: number, Label: label, Text: strings.TrimSpace(body)}}
	}

	units := []Unit{{
		Number: number,
		Label:  label,
		Text:   strings.TrimSpace(body[:subs[0][0]]),
	}}
	for i, sm := range subs {
		end := len(body)
		if i+1 < len(subs) {
			end = subs[i+1][0]
		}
		units = append(units, Unit{
			Label:       body[sm[2]:sm[3]],
			IsSubMarker: true,
			Text:        strings.TrimSpace(body[sm[1]:end]),
		})
	}
	return units
}

func (s *Segmenter) sliceRoman(text string, matches [][]int) []Unit {
	var units []Unit
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		label := text[m[2]:m[3]]
		units = append(units, Unit{
			Number: romanToInt(label),
			Label:  label,
			Text:   strings.TrimSpace(text[m[1]:end]),
		})
	}
	return units
}

// paragraphFallback is the last resort for unmarked documents: keep
// paragraphs that at least read like questions.
func (s *Segmenter) paragraphFallback(text string) []Unit {
	var units []Unit
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < s.minLength {
			continue
		}
		if !looksLikeQuestion(para) {
			continue
		}
		units = append(units, Unit{
			Number: len(units) + 1,
			Text:   para,
		})
	}
	return units
}

func looksLikeQuestion(para string) bool {
	lower := strings.ToLower(para)
	for _, kw := range questionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000}

func romanToInt(s string) int {
	s = strings.ToLower(s)
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
