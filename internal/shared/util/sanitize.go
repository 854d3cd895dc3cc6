package util

import (
	"errors"
	"strings"
)

var errBadFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators out of an uploaded exam's
// file name and rejects traversal sequences outright. Names collapse
// to plain basenames before the object store ever sees them.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errBadFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errBadFileName
	}
	return s, nil
}
