package suggest

import (
	"github.com/bastiangx/tamilserve/pkg/script"
)

// Generator defaults.
const (
	DefaultCeiling       = 10
	DefaultBranchOptions = 2
	DefaultDepthSlack    = 5
)

// Candidate is one native rendering produced for a Latin source token.
type Candidate struct {
	Source string
	Text   string
	Depth  int
	Order  int
}

// GeneratorOptions tunes the search. Zero fields take the defaults.
type GeneratorOptions struct {
	Ceiling       int
	BranchOptions int
	DepthSlack    int
	NoVariants    bool
}

func (o GeneratorOptions) withDefaults() GeneratorOptions {
	if o.Ceiling <= 0 {
		o.Ceiling = DefaultCeiling
	}
	if o.BranchOptions <= 0 {
		o.BranchOptions = DefaultBranchOptions
	}
	if o.DepthSlack < 0 {
		o.DepthSlack = 0
	} else if o.DepthSlack == 0 {
		o.DepthSlack = DefaultDepthSlack
	}
	return o
}

// Generator enumerates native renderings of a Latin token by a bounded
// depth-first walk over the grapheme table. It holds no mutable state and is
// safe for concurrent use.
type Generator struct {
	table *script.Table
	opts  GeneratorOptions
}

// NewGenerator returns a generator over table.
func NewGenerator(table *script.Table, opts GeneratorOptions) *Generator {
	return &Generator{table: table, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (g *Generator) Options() GeneratorOptions { return g.opts }

// Generate returns distinct candidates for a lowercase token in generation
// order. Unmappable characters are dropped; a token with nothing mappable
// yields an empty slice.
func (g *Generator) Generate(token string) []Candidate {
	if token == "" {
		return nil
	}
	s := newSearch(g.table, token, g.opts)
	s.walk(0, 0, "")
	if !g.opts.NoVariants {
		s.expandVariants()
	}
	return s.out
}

// Baseline is the rendering built from primary options only, with no
// length variants. It anchors ranking.
func (g *Generator) Baseline(token string) string {
	if token == "" {
		return ""
	}
	opts := g.opts
	opts.Ceiling = 1
	opts.BranchOptions = 1
	s := newSearch(g.table, token, opts)
	s.walk(0, 0, "")
	if len(s.out) == 0 {
		return ""
	}
	return s.out[0].Text
}

type search struct {
	table    *script.Table
	input    string
	opts     GeneratorOptions
	maxDepth int
	seen     map[string]struct{}
	out      []Candidate
}

func newSearch(table *script.Table, input string, opts GeneratorOptions) *search {
	return &search{
		table:    table,
		input:    input,
		opts:     opts,
		maxDepth: len(input) + opts.DepthSlack,
		seen:     make(map[string]struct{}, opts.Ceiling),
		out:      make([]Candidate, 0, opts.Ceiling),
	}
}

func (s *search) full() bool { return len(s.out) >= s.opts.Ceiling }

func (s *search) record(text string, depth int) {
	if _, dup := s.seen[text]; dup {
		return
	}
	s.seen[text] = struct{}{}
	s.out = append(s.out, Candidate{
		Source: s.input,
		Text:   text,
		Depth:  depth,
		Order:  len(s.out),
	})
}

func (s *search) walk(pos, depth int, acc string) {
	if s.full() || depth > s.maxDepth {
		return
	}
	if pos >= len(s.input) {
		if acc != "" {
			s.record(acc, depth)
		}
		return
	}

	if cons, n, ok := s.table.MatchConsonant(s.input, pos); ok {
		next := pos + n
		if vowel, vn, ok := s.table.MatchVowel(s.input, next); ok {
			// A vowel sign resolves the inherent vowel, so no pulli here.
			for i, form := range cons.Options {
				if i >= s.opts.BranchOptions || s.full() {
					break
				}
				s.walk(next+vn, depth+1, acc+form+vowel.Sign)
			}
			return
		}
		form := cons.Primary()
		if next >= len(s.input) || s.table.StartsConsonant(s.input, next) {
			form += script.Virama
		}
		s.walk(next, depth+1, acc+form)
		return
	}

	if vowel, vn, ok := s.table.MatchVowel(s.input, pos); ok {
		s.walk(pos+vn, depth+1, acc+vowel.Independent)
		return
	}

	s.walk(pos+1, depth+1, acc)
}

// expandVariants adds a long-vowel twin for every candidate holding a short
// vowel sign, since phonetic input does not mark vowel length.
func (s *search) expandVariants() {
	base := len(s.out)
	for i := 0; i < base && !s.full(); i++ {
		if long, ok := script.Lengthen(s.out[i].Text); ok {
			s.record(long, s.out[i].Depth)
		}
	}
}
