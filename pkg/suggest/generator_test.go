package suggest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bastiangx/tamilserve/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

// isVowelSign reports whether r is a Tamil dependent vowel sign (U+0BBE-U+0BCC).
func isVowelSign(r rune) bool {
	return r >= 0x0BBE && r <= 0x0BCC
}

func TestGenerateTamil(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	got := texts(gen.Generate("tamil"))
	assert.Equal(t, []string{"டமில்", "தமில்", "டமீல்", "தமீல்"}, got)
}

func TestNoViramaBeforeVowelSign(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	for _, token := range []string{"tamil", "thendral", "kadalai", "pattam", "ilakkiyam"} {
		t.Run(token, func(t *testing.T) {
			cands := gen.Generate(token)
			require.NotEmpty(t, cands)
			for _, c := range cands {
				runes := []rune(c.Text)
				for i := 1; i < len(runes); i++ {
					if isVowelSign(runes[i]) {
						assert.NotEqual(t, script.Virama, string(runes[i-1]),
							"virama before vowel sign in %q", c.Text)
					}
				}
			}
		})
	}
}

func TestTrailingConsonantGetsVirama(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	for _, token := range []string{"pal", "maram", "kan"} {
		cands := gen.Generate(token)
		require.NotEmpty(t, cands, token)
		for _, c := range cands {
			assert.True(t, script.EndsWithVirama(c.Text), "%s -> %q", token, c.Text)
		}
	}
}

func TestClusterGetsViramaBeforeConsonant(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	assert.Equal(t, "கன்ட", gen.Baseline("kanda"))
}

func TestMultiLetterClusters(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	assert.Equal(t, "தென்றல்", gen.Baseline("thendral"))
	assert.Equal(t, "தங்கம்", gen.Baseline("thangam"))
	assert.Equal(t, "கை", gen.Baseline("kai"))
}

func TestGenerateDeterministic(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	first := texts(gen.Generate("thendral"))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, texts(gen.Generate("thendral")))
	}
}

func TestGenerateRespectsCeiling(t *testing.T) {
	token := strings.Repeat("tha", 8)
	for _, ceiling := range []int{1, 3, 10} {
		t.Run(fmt.Sprintf("ceiling_%d", ceiling), func(t *testing.T) {
			gen := NewGenerator(script.Tamil(), GeneratorOptions{Ceiling: ceiling})
			cands := gen.Generate(token)
			assert.Len(t, cands, ceiling)
		})
	}
}

func TestGenerateDistinctAndOrdered(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})
	cands := gen.Generate("thendral")
	seen := map[string]bool{}
	for i, c := range cands {
		assert.False(t, seen[c.Text], "duplicate %q", c.Text)
		seen[c.Text] = true
		assert.Equal(t, i, c.Order)
		assert.Equal(t, "thendral", c.Source)
		assert.Positive(t, c.Depth)
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{})

	assert.Empty(t, gen.Generate(""))
	assert.Empty(t, gen.Generate("123"))
	assert.Equal(t, "", gen.Baseline("!!"))

	// Unmappable characters are dropped, not fatal.
	assert.Equal(t, "க", gen.Baseline("ka1"))

	// Word-initial vowels use the independent form.
	assert.Equal(t, "அம்ம", gen.Baseline("amma"))
}

func TestNoVariants(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{NoVariants: true})
	assert.Equal(t, []string{"டமில்", "தமில்"}, texts(gen.Generate("tamil")))
}

func TestBranchOptionsTunable(t *testing.T) {
	gen := NewGenerator(script.Tamil(), GeneratorOptions{BranchOptions: 3, NoVariants: true})
	assert.Equal(t, []string{"னா", "நா", "ணா"}, texts(gen.Generate("naa")))
}
