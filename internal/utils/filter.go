package utils

// SuggestionFilter drops repeated suggestions. Two strings are the same
// suggestion when their NFC forms match, so a precomposed vowel sign and its
// two-part spelling collapse into one entry.
// A filter is not safe for concurrent use.
type SuggestionFilter struct {
	seen map[string]struct{}
}

// NewSuggestionFilter creates a filter that also rejects the given words.
func NewSuggestionFilter(exclude ...string) *SuggestionFilter {
	f := &SuggestionFilter{seen: make(map[string]struct{}, 8)}
	for _, w := range exclude {
		f.seen[Normalize(w)] = struct{}{}
	}
	return f
}

// ShouldInclude reports whether word is new to the filter and records it.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	key := Normalize(word)
	if _, dup := f.seen[key]; dup {
		return false
	}
	f.seen[key] = struct{}{}
	return true
}

// Dedupe returns words in order with repeats and empty strings removed.
// Survivors are returned in NFC form.
func Dedupe(words []string) []string {
	f := NewSuggestionFilter("")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if f.ShouldInclude(w) {
			out = append(out, Normalize(w))
		}
	}
	return out
}
