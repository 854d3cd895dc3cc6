// Package ocrlang decides OCR language and engine settings for an exam
// before rasterization. Course taxonomy is a stronger and cheaper signal
// than free-text sniffing, so code prefixes are checked first and win.
package ocrlang

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExamType buckets an exam for OCR purposes.
const (
	ExamTypeLanguage = "language"
	ExamTypeMath     = "math"
	ExamTypeGeneral  = "general"
)

// Config is the advisory OCR decision for one document.
type Config struct {
	OCRLanguage       string `json:"ocr_language" yaml:"ocr_language"`
	ExamType          string `json:"exam_type" yaml:"exam_type"`
	NeedsMathOCR      bool   `json:"needs_math_ocr" yaml:"needs_math_ocr"`
	DetectedLanguage  string `json:"detected_language,omitempty" yaml:"detected_language,omitempty"`
	TesseractConfig   string `json:"ocr_config" yaml:"ocr_config"`
	RecommendedMethod string `json:"recommended_ocr_method" yaml:"recommended_ocr_method"`
}

// LanguageCourse maps a course-code prefix to its OCR language.
type LanguageCourse struct {
	Lang         string `yaml:"lang"`
	LanguageName string `yaml:"language_name"`
}

// Selector resolves OCR configuration from course codes and page text.
type Selector struct {
	languageCourses map[string]LanguageCourse
	mathCourses     map[string]struct{}
	mathKeywords    []string
	langKeywords    []string
}

var coursePrefixRe = regexp.MustCompile(`^([A-Z]{2,4})`)

// NewSelector builds a Selector with the built-in course tables.
func NewSelector() *Selector {
	return &Selector{
		languageCourses: map[string]LanguageCourse{
			"ARAB": {Lang: "ara+eng", LanguageName: "Arabic"},
			"FREN": {Lang: "fra+eng", LanguageName: "French"},
			"SPAN": {Lang: "spa+eng", LanguageName: "Spanish"},
			"GERM": {Lang: "deu+eng", LanguageName: "German"},
			"ITAL": {Lang: "ita+eng", LanguageName: "Italian"},
			"CHIN": {Lang: "chi_sim+eng", LanguageName: "Chinese"},
			"JAPA": {Lang: "jpn+eng", LanguageName: "Japanese"},
			"KORE": {Lang: "kor+eng", LanguageName: "Korean"},
			"RUSS": {Lang: "rus+eng", LanguageName: "Russian"},
			"PORT": {Lang: "por+eng", LanguageName: "Portuguese"},
		},
		mathCourses: map[string]struct{}{
			"MATH": {}, "STAT": {}, "PHYS": {}, "CHEM": {},
			"ENGR": {}, "ELEC": {}, "MECH": {}, "CIVL": {},
		},
		mathKeywords: []string{
			"equation", "formula", "derivative", "integral", "calculus",
			"algebra", "geometry", "trigonometry", "matrix", "vector",
			"solve for", "calculate", "show that", "prove that",
		},
		langKeywords: []string{
			"translate", "translation", "grammar", "vocabulary",
			"conjugate", "verb", "adjective", "noun", "pronoun",
		},
	}
}

type overridesFile struct {
	LanguageCourses map[string]LanguageCourse `yaml:"language_courses"`
	MathCourses     []string                  `yaml:"math_courses"`
}

// LoadOverrides merges course-table entries from a YAML file into the
// built-in tables. Unknown prefixes are added, known ones replaced.
func (s *Selector) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read course table %s: %w", path, err)
	}
	var file overridesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse course table %s: %w", path, err)
	}
	for prefix, lc := range file.LanguageCourses {
		s.languageCourses[strings.ToUpper(strings.TrimSpace(prefix))] = lc
	}
	for _, prefix := range file.MathCourses {
		s.mathCourses[strings.ToUpper(strings.TrimSpace(prefix))] = struct{}{}
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		OCRLanguage:       "eng",
		ExamType:          ExamTypeGeneral,
		TesseractConfig:   "--psm 6",
		RecommendedMethod: "tesseract",
	}
}

// Select returns the OCR configuration for the given course code and
// optional first-page text. Decision order: language-course prefix,
// math-course prefix, page-text keywords, general English default.
func (s *Selector) Select(courseCode, firstPageText string) Config {
	cfg := defaultConfig()

	if courseCode != "" {
		upper := strings.ToUpper(strings.TrimSpace(courseCode))
		if m := coursePrefixRe.FindStringSubmatch(upper); m != nil {
			prefix := m[1]
			if lc, ok := s.languageCourses[prefix]; ok {
				cfg.OCRLanguage = lc.Lang
				cfg.ExamType = ExamTypeLanguage
				cfg.DetectedLanguage = lc.LanguageName
				return cfg
			}
			if _, ok := s.mathCourses[prefix]; ok {
				cfg.ExamType = ExamTypeMath
				cfg.NeedsMathOCR = true
				cfg.RecommendedMethod = "mathpix_or_tesseract"
				return cfg
			}
		}
	}

	if firstPageText != "" {
		lower := strings.ToLower(firstPageText)

		if containsAny(lower, s.langKeywords) {
			switch {
			case strings.Contains(lower, "arabic") || strings.Contains(firstPageText, "عربي"):
				cfg.OCRLanguage = "ara+eng"
				cfg.ExamType = ExamTypeLanguage
				cfg.DetectedLanguage = "Arabic"
			case strings.Contains(lower, "french") || strings.Contains(lower, "français"):
				cfg.OCRLanguage = "fra+eng"
				cfg.ExamType = ExamTypeLanguage
				cfg.DetectedLanguage = "French"
			case strings.Contains(lower, "spanish") || strings.Contains(lower, "español"):
				cfg.OCRLanguage = "spa+eng"
				cfg.ExamType = ExamTypeLanguage
				cfg.DetectedLanguage = "Spanish"
			}
		}

		if containsAny(lower, s.mathKeywords) {
			cfg.ExamType = ExamTypeMath
			cfg.NeedsMathOCR = true
			cfg.RecommendedMethod = "mathpix_or_tesseract"
		}
	}

	return cfg
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
