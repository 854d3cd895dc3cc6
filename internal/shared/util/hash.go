package util

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// NormalizeForHash lowercases and collapses whitespace so near-identical
// strings hash identically.
func NormalizeForHash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// HashText returns a hex digest of the normalized text, used for exact
// duplicate detection.
func HashText(s string) string {
	sum := md5.Sum([]byte(NormalizeForHash(s)))
	return hex.EncodeToString(sum[:])
}
