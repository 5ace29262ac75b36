// Package suggest is the core of the engine: it turns a Latin token into
// ranked native-script renderings.
//
// A lookup runs the exact-match override dictionary first, then the
// suggestion cache, then (optionally) a remote lookup, and finally the local
// pipeline: Generator enumerates renderings, Ranker orders them against the
// primary-option baseline, and the result is cached.
package suggest

import "context"

// ITransliterator defines the interface for transliteration engines
type ITransliterator interface {
	// Suggest returns scored suggestions for a token, bypassing the cache
	Suggest(token string, limit int) []Suggestion

	// Lookup resolves a token for an editing session, using the cache
	Lookup(ctx context.Context, token string) (Result, error)

	// Override returns the dictionary word for a token, if any
	Override(token string) (string, bool)

	// ClearCache empties the shared cache
	ClearCache()

	// Stats returns engine counters
	Stats() map[string]int
}

var _ ITransliterator = (*Transliterator)(nil)
