package suggest

import (
	"sort"

	"github.com/antzucaro/matchr"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/bastiangx/tamilserve/pkg/script"
)

// DefaultMaxSuggestions caps ranked output.
const DefaultMaxSuggestions = 6

// Score weights. Lower totals rank higher.
const (
	distanceWeight   = 2.0
	lengthWeight     = 0.6
	viramaPenalty    = 0.75
	nonNativePenalty = 3.0
	orderWeight      = 0.01
)

// Ranked is a scored native suggestion.
type Ranked struct {
	Text  string
	Score float64
}

// Ranker orders candidates by closeness to a baseline rendering.
type Ranker struct {
	limit int
}

// NewRanker returns a ranker truncating to limit entries (default when <= 0).
func NewRanker(limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}
	return &Ranker{limit: limit}
}

// Limit returns the truncation bound.
func (r *Ranker) Limit() int { return r.limit }

// Rank scores candidates against baseline and returns at most Limit of them,
// best first. Ties keep generation order. The result is never padded.
func (r *Ranker) Rank(baseline string, candidates []Candidate) []Ranked {
	filter := utils.NewSuggestionFilter("")
	ranked := make([]Ranked, 0, len(candidates))
	for _, cand := range candidates {
		if !filter.ShouldInclude(cand.Text) {
			continue
		}
		ranked = append(ranked, Ranked{
			Text:  cand.Text,
			Score: Score(cand.Text, baseline, cand.Order),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	if len(ranked) > r.limit {
		ranked = ranked[:r.limit]
	}
	return ranked
}

// Score computes the ranking cost of candidate relative to baseline.
// order is the candidate's generation index and only breaks ties.
func Score(candidate, baseline string, order int) float64 {
	cr, br := []rune(candidate), []rune(baseline)
	overlap := min(len(cr), len(br))

	score := distanceWeight * float64(matchr.Levenshtein(string(cr[:overlap]), string(br[:overlap])))
	score += lengthWeight * float64(abs(len(cr)-len(br)))
	// A pulli the baseline also ends in is expected for this token.
	if script.EndsWithVirama(candidate) && !script.EndsWithVirama(baseline) {
		score += viramaPenalty
	}
	if !script.ContainsNative(candidate) {
		score += nonNativePenalty
	}
	score += orderWeight * float64(order)
	return score
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
