package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesSortedByPatternLength(t *testing.T) {
	table := Tamil()
	for _, rules := range [][]Rule{table.Consonants(), table.Vowels()} {
		require.NotEmpty(t, rules)
		for i := 1; i < len(rules); i++ {
			assert.GreaterOrEqual(t, len(rules[i-1].Pattern), len(rules[i].Pattern),
				"%q listed before %q", rules[i-1].Pattern, rules[i].Pattern)
		}
	}
}

func TestMatchConsonantLongestFirst(t *testing.T) {
	table := Tamil()
	tests := []struct {
		input   string
		pos     int
		pattern string
		n       int
	}{
		{"thendral", 0, "th", 2},
		{"thendral", 3, "ndr", 3},
		{"kai", 0, "k", 1},
		{"vanakkam", 4, "kk", 2},
		{"lakshmi", 2, "ksh", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rule, n, ok := table.MatchConsonant(tt.input, tt.pos)
			require.True(t, ok)
			assert.Equal(t, tt.pattern, rule.Pattern)
			assert.Equal(t, tt.n, n)
			assert.Equal(t, Consonant, rule.Kind)
		})
	}
}

func TestMatchVowel(t *testing.T) {
	table := Tamil()

	rule, n, ok := table.MatchVowel("kai", 1)
	require.True(t, ok)
	assert.Equal(t, "ai", rule.Pattern)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ஐ", rule.Independent)

	rule, _, ok = table.MatchVowel("ka", 1)
	require.True(t, ok)
	assert.Empty(t, rule.Sign, "inherent vowel carries no sign")

	_, _, ok = table.MatchVowel("ka", 0)
	assert.False(t, ok)
	_, _, ok = table.MatchVowel("ka", 5)
	assert.False(t, ok)
}

func TestRecognizes(t *testing.T) {
	table := Tamil()
	assert.True(t, table.Recognizes("amma"))
	assert.False(t, table.Recognizes(""))
	assert.False(t, table.Recognizes("123"))
}

func TestLengthen(t *testing.T) {
	long, ok := Lengthen("தமில்")
	require.True(t, ok)
	assert.Equal(t, "தமீல்", long)

	long, ok = Lengthen("கொடு")
	require.True(t, ok)
	assert.Equal(t, "கோடு", long)

	_, ok = Lengthen("கை")
	assert.False(t, ok)
}

func TestNativeHelpers(t *testing.T) {
	assert.True(t, ContainsNative("abcத"))
	assert.False(t, ContainsNative("abc"))
	assert.True(t, EndsWithVirama("தமிழ்"))
	assert.False(t, EndsWithVirama("தமிழ"))
}

func TestNewTablePanicsOnMalformedRules(t *testing.T) {
	bad := [][]Rule{
		{{Pattern: "", Kind: Consonant, Options: []string{"க"}}},
		{{Pattern: "kkkkk", Kind: Consonant, Options: []string{"க"}}},
		{{Pattern: "K", Kind: Consonant, Options: []string{"க"}}},
		{{Pattern: "k", Kind: Consonant}},
		{{Pattern: "a", Kind: Vowel}},
		{c("k", "க"), c("k", "க")},
	}
	for _, rules := range bad {
		assert.Panics(t, func() { NewTable("bad", rules) })
	}
}
