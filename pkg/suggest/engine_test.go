package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bastiangx/tamilserve/pkg/remote"
	"github.com/bastiangx/tamilserve/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Word
	}
	return out
}

func TestSuggestOverrideSkipsGenerator(t *testing.T) {
	tr := NewTransliterator(Options{})
	got := tr.Suggest("vanakkam", 6)
	require.Len(t, got, 1)
	assert.Equal(t, "வணக்கம்", got[0].Word)
	assert.Zero(t, got[0].Score)
	assert.Equal(t, 0, tr.Stats()["generatorRuns"])
}

func TestSuggestThendral(t *testing.T) {
	tr := NewTransliterator(Options{})
	got := tr.Suggest("thendral", 6)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 6)
	assert.Equal(t, "தென்றல்", got[0].Word)
	for _, s := range got {
		assert.True(t, script.ContainsNative(s.Word), s.Word)
	}
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Score, got[i].Score)
	}

	assert.Equal(t, words(got), words(tr.Suggest("THENDRAL", 6)))
	assert.Len(t, tr.Suggest("thendral", 1), 1)
	assert.Equal(t, 0, tr.Cache().Len(), "Suggest does not populate the cache")
}

func TestSuggestEmpty(t *testing.T) {
	tr := NewTransliterator(Options{})
	assert.Empty(t, tr.Suggest("", 6))
	assert.Empty(t, tr.Suggest("  ", 6))
	assert.Empty(t, tr.Suggest("1234", 6))
}

func TestLookupCachesLocalResult(t *testing.T) {
	tr := NewTransliterator(Options{})
	ctx := context.Background()

	first, err := tr.Lookup(ctx, "kadal")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, first.Source)
	require.NotEmpty(t, first.Suggestions)

	second, err := tr.Lookup(ctx, "Kadal")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Suggestions, second.Suggestions)
	assert.Equal(t, 1, tr.Stats()["generatorRuns"])
}

func TestLookupOverrideIsCached(t *testing.T) {
	tr := NewTransliterator(Options{Overrides: map[string]string{"kutti": "குட்டி"}})
	res, err := tr.Lookup(context.Background(), "kutti")
	require.NoError(t, err)
	assert.Equal(t, SourceOverride, res.Source)
	assert.Equal(t, []string{"குட்டி"}, res.Suggestions)

	cached, ok := tr.Cache().Get("kutti")
	assert.True(t, ok)
	assert.Equal(t, []string{"குட்டி"}, cached)
}

func TestLookupEmptyResultNotCached(t *testing.T) {
	tr := NewTransliterator(Options{})
	res, err := tr.Lookup(context.Background(), "123")
	require.NoError(t, err)
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, 0, tr.Cache().Len())
}

func TestLookupRemoteNormalizesAndCaches(t *testing.T) {
	var calls atomic.Int32
	rem := remote.Func(func(ctx context.Context, token string) ([]string, error) {
		calls.Add(1)
		return []string{"\u0b95\u0bc6\u0bbe", "\u0b95\u0bca", "", "கோ"}, nil
	})
	tr := NewTransliterator(Options{Remote: rem, PreferRemote: true})
	ctx := context.Background()

	res, err := tr.Lookup(ctx, "ko")
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, []string{"\u0b95\u0bca", "கோ"}, res.Suggestions)

	again, err := tr.Lookup(ctx, "ko")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, again.Source)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, tr.Stats()["generatorRuns"])
}

func TestLookupRemoteSkippedForUnrecognizedToken(t *testing.T) {
	rem := remote.Func(func(ctx context.Context, token string) ([]string, error) {
		t.Fatalf("remote called for %q", token)
		return nil, nil
	})
	tr := NewTransliterator(Options{Remote: rem, PreferRemote: true})
	res, err := tr.Lookup(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
}

func TestLookupRemoteNotPreferred(t *testing.T) {
	rem := remote.Func(func(ctx context.Context, token string) ([]string, error) {
		t.Fatalf("remote called for %q", token)
		return nil, nil
	})
	tr := NewTransliterator(Options{Remote: rem})
	res, err := tr.Lookup(context.Background(), "kadal")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
}

func TestLookupRemoteFailure(t *testing.T) {
	rem := remote.Func(func(ctx context.Context, token string) ([]string, error) {
		return nil, remote.ErrUnavailable
	})
	tr := NewTransliterator(Options{Remote: rem, PreferRemote: true})
	res, err := tr.Lookup(context.Background(), "kadal")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrUnavailable))
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, 0, tr.Cache().Len())
	assert.Equal(t, 0, tr.Stats()["generatorRuns"], "no local fallback")
}

func TestLookupRemoteCollapsesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	rem := remote.Func(func(ctx context.Context, token string) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"கடல்"}, nil
	})
	tr := NewTransliterator(Options{Remote: rem, PreferRemote: true})

	var wg sync.WaitGroup
	results := make([]Result, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := tr.Lookup(context.Background(), "kadal")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, res := range results {
		assert.Equal(t, []string{"கடல்"}, res.Suggestions)
	}
}

func TestLookupRemoteOutlivesCanceledCaller(t *testing.T) {
	release := make(chan struct{})
	rem := remote.Func(func(ctx context.Context, token string) ([]string, error) {
		select {
		case <-release:
			return []string{"கடல்"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	tr := NewTransliterator(Options{Remote: rem, PreferRemote: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = tr.Lookup(ctx, "kadal")
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(release)
	<-done

	// The answer lands in the cache even though the caller went away.
	got, ok := tr.Cache().Get("kadal")
	require.True(t, ok)
	assert.Equal(t, []string{"கடல்"}, got)
}

func TestClearCache(t *testing.T) {
	tr := NewTransliterator(Options{})
	_, err := tr.Lookup(context.Background(), "kadal")
	require.NoError(t, err)
	require.Equal(t, 1, tr.Cache().Len())
	tr.ClearCache()
	assert.Equal(t, 0, tr.Cache().Len())
}

func TestTransliteratorStats(t *testing.T) {
	tr := NewTransliterator(Options{MaxSuggestions: 3, CacheCapacity: 8})
	stats := tr.Stats()
	assert.Equal(t, 3, stats["maxSuggestions"])
	assert.Equal(t, 8, stats["cacheCapacity"])
	assert.Equal(t, 0, stats["remote"])
	assert.Equal(t, len(commonWords), stats["overrideWords"])
}
