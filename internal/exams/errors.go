package exams

import "errors"

var (
	// ErrNotFound indicates the requested exam does not exist.
	ErrNotFound = errors.New("exam not found")
	// ErrInvalidInput indicates a caller-supplied value failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
