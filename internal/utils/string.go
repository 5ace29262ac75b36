package utils

// IsLatinLetter reports whether r is an ASCII letter.
func IsLatinLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// IsLatinToken reports whether s is non-empty and made only of ASCII letters.
func IsLatinToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !IsLatinLetter(r) {
			return false
		}
	}
	return true
}

// IsValidToken checks length bounds on top of IsLatinToken.
// Returns false for empty input, digits, punctuation and non-Latin letters.
func IsValidToken(s string, minLen, maxLen int) bool {
	if !IsLatinToken(s) {
		return false
	}
	if len(s) < minLen {
		return false
	}
	if maxLen > 0 && len(s) > maxLen {
		return false
	}
	return true
}

// TrailingToken scans left from caret for the contiguous run of Latin letters
// ending at the caret. Offsets are rune indexes into buf. ok is false when the
// caret is out of range or no letter sits directly before it.
func TrailingToken(buf []rune, caret int) (token string, start, end int, ok bool) {
	if caret <= 0 || caret > len(buf) {
		return "", 0, 0, false
	}
	start = caret
	for start > 0 && IsLatinLetter(buf[start-1]) {
		start--
	}
	if start == caret {
		return "", 0, 0, false
	}
	return string(buf[start:caret]), start, caret, true
}
