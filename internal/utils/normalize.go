package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode NFC. Native strings coming from outside the
// engine may spell a two-part vowel sign as separate code points.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// FoldToken trims and lowercases a Latin token for table and cache lookups.
func FoldToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
