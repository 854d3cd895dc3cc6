// Package extract turns exam PDFs into page text. A fixed chain of
// extractors runs in order (embedded-text readers first, then poppler,
// then OCR) and the first one that yields non-empty text wins. Failure
// detail is kept per attempt so a batch run can report why each layer
// passed on a document.
package extract

import (
	"fmt"
	"strings"
)

// ErrorKind classifies an extraction failure for reporting and metrics.
type ErrorKind string

const (
	KindEncrypted         ErrorKind = "encrypted"
	KindMissingDependency ErrorKind = "missing_dependency"
	KindEmptyOutput       ErrorKind = "empty_output"
	KindCorrupted         ErrorKind = "corrupted"
	KindFileNotFound      ErrorKind = "file_not_found"
	KindUnknown           ErrorKind = "unknown"
)

// AttemptError records a single extractor failing on a document.
type AttemptError struct {
	Method  string
	Kind    ErrorKind
	Message string
}

// Error is returned when every layer in the chain failed. Kind reflects
// the most decisive failure seen (an encrypted PDF beats an empty one).
type Error struct {
	Kind     ErrorKind
	Attempts []AttemptError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Method, a.Message))
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, strings.Join(parts, "; "))
}

// Detail joins per-attempt messages for persistence.
func (e *Error) Detail() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("[%s] %s", a.Method, a.Message))
	}
	return strings.Join(parts, "; ")
}

// classifyMessage maps an extractor's error text onto a kind. Password
// and encryption wording always means the document is locked; corruption
// wording means the file itself is damaged.
func classifyMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "password") || strings.Contains(lower, "encrypted") || strings.Contains(lower, "encryption"):
		return KindEncrypted
	case strings.Contains(lower, "corrupt") || strings.Contains(lower, "damaged") || strings.Contains(lower, "malformed") || strings.Contains(lower, "not a pdf"):
		return KindCorrupted
	case strings.Contains(lower, "executable file not found") || strings.Contains(lower, "not installed"):
		return KindMissingDependency
	case strings.Contains(lower, "no such file") || strings.Contains(lower, "not found") && strings.Contains(lower, "file"):
		return KindFileNotFound
	default:
		return KindUnknown
	}
}

// kindSeverity orders kinds so the chain error carries the most telling
// one. Encrypted outranks everything: the document is readable in
// principle but deliberately locked.
func kindSeverity(k ErrorKind) int {
	switch k {
	case KindEncrypted:
		return 5
	case KindCorrupted:
		return 4
	case KindFileNotFound:
		return 3
	case KindMissingDependency:
		return 2
	case KindEmptyOutput:
		return 1
	default:
		return 0
	}
}
