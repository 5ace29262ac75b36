// Package script holds the grapheme tables that map Latin letter clusters onto
// native script forms.
//
// A Table is built once from a static rule list and is read-only afterwards, so
// it can be shared by every generator and session in the process without
// locking. Rules are indexed by Latin pattern in a patricia trie; matching walks
// candidate lengths from MaxPatternLen down to 1, which gives longest-match-first
// scanning without backtracking at the matching stage. Ambiguity lives in the
// rule Options, not in the matcher.
package script

import (
	"fmt"
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// MaxPatternLen is the longest Latin cluster a rule may carry.
const MaxPatternLen = 4

// Kind tells consonant rules apart from vowel rules.
type Kind uint8

const (
	Consonant Kind = iota
	Vowel
)

func (k Kind) String() string {
	switch k {
	case Consonant:
		return "consonant"
	case Vowel:
		return "vowel"
	default:
		return "unknown"
	}
}

// Rule maps one Latin pattern to its native renderings.
//
// Consonant rules use Options (primary first). Vowel rules use Independent for
// word-initial or standalone vowels and Sign after a consonant; Sign is empty
// for the inherent vowel.
type Rule struct {
	Pattern     string
	Kind        Kind
	Options     []string
	Independent string
	Sign        string
}

// Primary returns the first consonant option, or "" for vowel rules.
func (r Rule) Primary() string {
	if len(r.Options) == 0 {
		return ""
	}
	return r.Options[0]
}

// Table is an immutable pair of consonant and vowel rule sets.
type Table struct {
	name       string
	consonants []Rule
	vowels     []Rule
	consIndex  *patricia.Trie
	vowelIndex *patricia.Trie
}

// NewTable validates rules and builds the lookup indexes. A malformed rule set
// is a programming error and panics.
func NewTable(name string, rules []Rule) *Table {
	t := &Table{
		name:       name,
		consIndex:  patricia.NewTrie(),
		vowelIndex: patricia.NewTrie(),
	}
	for i, r := range rules {
		if err := validateRule(r); err != nil {
			panic(fmt.Sprintf("script %s: rule %d: %v", name, i, err))
		}
		switch r.Kind {
		case Consonant:
			if !t.consIndex.Insert(patricia.Prefix(r.Pattern), r) {
				panic(fmt.Sprintf("script %s: duplicate consonant pattern %q", name, r.Pattern))
			}
			t.consonants = append(t.consonants, r)
		case Vowel:
			if !t.vowelIndex.Insert(patricia.Prefix(r.Pattern), r) {
				panic(fmt.Sprintf("script %s: duplicate vowel pattern %q", name, r.Pattern))
			}
			t.vowels = append(t.vowels, r)
		}
	}
	byLength := func(rs []Rule) func(i, j int) bool {
		return func(i, j int) bool { return len(rs[i].Pattern) > len(rs[j].Pattern) }
	}
	sort.SliceStable(t.consonants, byLength(t.consonants))
	sort.SliceStable(t.vowels, byLength(t.vowels))
	return t
}

func validateRule(r Rule) error {
	if n := len(r.Pattern); n == 0 || n > MaxPatternLen {
		return fmt.Errorf("pattern %q must be 1-%d letters", r.Pattern, MaxPatternLen)
	}
	for i := 0; i < len(r.Pattern); i++ {
		if c := r.Pattern[i]; c < 'a' || c > 'z' {
			return fmt.Errorf("pattern %q must be lowercase ASCII", r.Pattern)
		}
	}
	switch r.Kind {
	case Consonant:
		if len(r.Options) == 0 {
			return fmt.Errorf("consonant %q has no options", r.Pattern)
		}
	case Vowel:
		if r.Independent == "" {
			return fmt.Errorf("vowel %q has no independent form", r.Pattern)
		}
	default:
		return fmt.Errorf("pattern %q has unknown kind %d", r.Pattern, r.Kind)
	}
	return nil
}

// Name returns the script name the table was built for.
func (t *Table) Name() string { return t.name }

// Consonants returns consonant rules sorted by descending pattern length.
func (t *Table) Consonants() []Rule { return t.consonants }

// Vowels returns vowel rules sorted by descending pattern length.
func (t *Table) Vowels() []Rule { return t.vowels }

// MatchConsonant finds the longest consonant pattern starting at pos and
// returns the rule with the number of Latin bytes it consumes.
func (t *Table) MatchConsonant(input string, pos int) (Rule, int, bool) {
	return longest(t.consIndex, input, pos)
}

// MatchVowel finds the longest vowel pattern starting at pos.
func (t *Table) MatchVowel(input string, pos int) (Rule, int, bool) {
	return longest(t.vowelIndex, input, pos)
}

// StartsConsonant reports whether a consonant pattern begins at pos.
func (t *Table) StartsConsonant(input string, pos int) bool {
	_, _, ok := t.MatchConsonant(input, pos)
	return ok
}

// Recognizes reports whether input contains at least one mappable grapheme.
func (t *Table) Recognizes(input string) bool {
	for pos := 0; pos < len(input); pos++ {
		if _, _, ok := t.MatchConsonant(input, pos); ok {
			return true
		}
		if _, _, ok := t.MatchVowel(input, pos); ok {
			return true
		}
	}
	return false
}

func longest(index *patricia.Trie, input string, pos int) (Rule, int, bool) {
	if pos < 0 || pos >= len(input) {
		return Rule{}, 0, false
	}
	for n := min(MaxPatternLen, len(input)-pos); n > 0; n-- {
		if item := index.Get(patricia.Prefix(input[pos : pos+n])); item != nil {
			return item.(Rule), n, true
		}
	}
	return Rule{}, 0, false
}
