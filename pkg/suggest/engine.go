package suggest

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bastiangx/tamilserve/internal/observe"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/bastiangx/tamilserve/pkg/remote"
	"github.com/bastiangx/tamilserve/pkg/script"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Source tells where a lookup result came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceOverride Source = "override"
	SourceCache    Source = "cache"
	SourceLocal    Source = "local"
	SourceRemote   Source = "remote"
)

// Suggestion is one ranked native rendering.
type Suggestion struct {
	Word  string
	Score float64
}

// Result is the answer to a Lookup.
type Result struct {
	Token       string
	Suggestions []string
	Source      Source
}

// Options configures a Transliterator.
type Options struct {
	Table          *script.Table
	Generator      GeneratorOptions
	MaxSuggestions int
	CacheCapacity  int
	Overrides      map[string]string

	// Remote, when set, is consulted on cache misses for tokens that have
	// at least one recognizable grapheme, if PreferRemote is true.
	Remote       remote.Lookup
	PreferRemote bool

	Metrics *observe.Metrics
}

// Transliterator ties the override dictionary, generator, ranker and cache
// together. It is safe for concurrent use and may serve many sessions.
type Transliterator struct {
	table     *script.Table
	gen       *Generator
	ranker    *Ranker
	overrides *Overrides
	cache     *Cache
	remote    remote.Lookup
	preferRem bool
	metrics   *observe.Metrics
	flight    singleflight.Group

	generatorRuns atomic.Int64
	remoteCalls   atomic.Int64
}

// NewTransliterator builds an engine from opts.
func NewTransliterator(opts Options) *Transliterator {
	table := opts.Table
	if table == nil {
		table = script.Tamil()
	}
	return &Transliterator{
		table:     table,
		gen:       NewGenerator(table, opts.Generator),
		ranker:    NewRanker(opts.MaxSuggestions),
		overrides: NewOverrides(opts.Overrides),
		cache:     NewCache(opts.CacheCapacity),
		remote:    opts.Remote,
		preferRem: opts.PreferRemote,
		metrics:   opts.Metrics,
	}
}

// Suggest ranks renderings for token without touching the cache. An override
// hit returns that single word with score 0 and skips generation. limit <= 0
// uses the ranker's limit.
func (t *Transliterator) Suggest(token string, limit int) []Suggestion {
	key := utils.FoldToken(token)
	if key == "" {
		return nil
	}
	if word, ok := t.overrides.Lookup(key); ok {
		return []Suggestion{{Word: word, Score: 0}}
	}

	ranked := t.rank(key)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Suggestion, len(ranked))
	for i, r := range ranked {
		out[i] = Suggestion{Word: r.Text, Score: r.Score}
	}
	return out
}

func (t *Transliterator) rank(key string) []Ranked {
	t.generatorRuns.Add(1)
	candidates := t.gen.Generate(key)
	if len(candidates) == 0 {
		return nil
	}
	return t.ranker.Rank(t.gen.Baseline(key), candidates)
}

// Lookup resolves token through override, cache, remote and local
// generation, in that order, and caches what it finds under the requested
// token. A remote failure is returned as an error with no suggestions; the
// caller decides whether the answer is still wanted.
func (t *Transliterator) Lookup(ctx context.Context, token string) (Result, error) {
	start := time.Now()
	key := utils.FoldToken(token)
	res := Result{Token: key, Source: SourceNone}
	if key == "" {
		return res, nil
	}

	if word, ok := t.overrides.Lookup(key); ok {
		t.cache.Put(key, []string{word})
		res.Suggestions, res.Source = []string{word}, SourceOverride
		t.metrics.RecordLookup(ctx, string(res.Source), time.Since(start))
		return res, nil
	}

	if cached, ok := t.cache.Get(key); ok {
		t.metrics.RecordCache(ctx, true)
		res.Suggestions, res.Source = cached, SourceCache
		t.metrics.RecordLookup(ctx, string(res.Source), time.Since(start))
		return res, nil
	}
	t.metrics.RecordCache(ctx, false)

	if t.remote != nil && t.preferRem && t.table.Recognizes(key) {
		list, err := t.lookupRemote(ctx, key)
		if err != nil {
			t.metrics.RecordRemoteFailure(ctx, failureReason(err))
			log.Debugf("Remote lookup for '%s' failed: %v", key, err)
			res.Source = SourceRemote
			return res, err
		}
		res.Suggestions, res.Source = list, SourceRemote
		t.metrics.RecordLookup(ctx, string(res.Source), time.Since(start))
		return res, nil
	}

	ranked := t.rank(key)
	words := make([]string, len(ranked))
	for i, r := range ranked {
		words[i] = r.Text
	}
	if len(words) > 0 {
		t.cache.Put(key, words)
	}
	res.Suggestions, res.Source = words, SourceLocal
	t.metrics.RecordLookup(ctx, string(res.Source), time.Since(start))
	return res, nil
}

// lookupRemote collapses concurrent calls for one key and caches the
// normalized answer before returning it.
func (t *Transliterator) lookupRemote(ctx context.Context, key string) ([]string, error) {
	v, err, _ := t.flight.Do(key, func() (any, error) {
		t.remoteCalls.Add(1)
		// Shared by every waiter, so one caller giving up must not cancel it.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), remote.DefaultTimeout)
		defer cancel()
		list, err := t.remote.Lookup(callCtx, key)
		if err != nil {
			return nil, err
		}
		list = utils.Dedupe(list)
		if limit := t.ranker.Limit(); len(list) > limit {
			list = list[:limit]
		}
		if len(list) > 0 {
			t.cache.Put(key, list)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, remote.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, remote.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// Override returns the dictionary word for token, if any.
func (t *Transliterator) Override(token string) (string, bool) {
	return t.overrides.Lookup(utils.FoldToken(token))
}

// Baseline exposes the primary-option rendering of token.
func (t *Transliterator) Baseline(token string) string {
	return t.gen.Baseline(utils.FoldToken(token))
}

// Cache returns the shared suggestion cache.
func (t *Transliterator) Cache() *Cache { return t.cache }

// ClearCache drops every cached token.
func (t *Transliterator) ClearCache() {
	t.cache.Clear()
	log.Debug("Suggestion cache cleared")
}

func (t *Transliterator) Stats() map[string]int {
	stats := t.cache.Stats()
	stats["overrideWords"] = t.overrides.Len()
	stats["generatorRuns"] = int(t.generatorRuns.Load())
	stats["remoteCalls"] = int(t.remoteCalls.Load())
	stats["maxSuggestions"] = t.ranker.Limit()
	if t.remote != nil {
		stats["remote"] = 1
	} else {
		stats["remote"] = 0
	}
	return stats
}
