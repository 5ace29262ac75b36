// Package observe holds the OpenTelemetry instruments recorded by the
// transliteration engine and its sessions.
//
// Instruments come from a metric.MeterProvider. Binaries use the global
// provider (a no-op until an SDK is installed); tests pass an SDK provider
// with a manual reader to inspect values.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bastiangx/tamilserve"

// Metrics bundles every instrument. The zero value is not usable; a nil
// *Metrics is, and records nothing.
type Metrics struct {
	CacheHits      metric.Int64Counter
	CacheMisses    metric.Int64Counter
	Lookups        metric.Int64Counter
	LookupDuration metric.Float64Histogram
	StaleDiscards  metric.Int64Counter
	RemoteFailures metric.Int64Counter
}

// latencyBuckets are in milliseconds; local lookups sit well under 1ms,
// remote ones up to the 2s timeout.
var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 50, 250, 1000, 2000}

// NewMetrics builds the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.CacheHits, err = m.Int64Counter("tamilserve.cache.hits",
		metric.WithDescription("Suggestion cache hits.")); err != nil {
		return nil, err
	}
	if met.CacheMisses, err = m.Int64Counter("tamilserve.cache.misses",
		metric.WithDescription("Suggestion cache misses.")); err != nil {
		return nil, err
	}
	if met.Lookups, err = m.Int64Counter("tamilserve.lookups",
		metric.WithDescription("Resolved lookups by source.")); err != nil {
		return nil, err
	}
	if met.LookupDuration, err = m.Float64Histogram("tamilserve.lookup.duration",
		metric.WithDescription("Lookup latency."),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...)); err != nil {
		return nil, err
	}
	if met.StaleDiscards, err = m.Int64Counter("tamilserve.session.stale_discards",
		metric.WithDescription("Lookup results dropped because a newer lookup superseded them.")); err != nil {
		return nil, err
	}
	if met.RemoteFailures, err = m.Int64Counter("tamilserve.remote.failures",
		metric.WithDescription("Failed remote lookups.")); err != nil {
		return nil, err
	}
	return met, nil
}

// Default builds instruments from the global provider, falling back to nil
// (recording nothing) if the provider refuses.
func Default() *Metrics {
	m, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return nil
	}
	return m
}

// RecordCache counts one cache probe.
func (m *Metrics) RecordCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Add(ctx, 1)
		return
	}
	m.CacheMisses.Add(ctx, 1)
}

// RecordLookup counts a resolved lookup and its latency.
func (m *Metrics) RecordLookup(ctx context.Context, source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.Lookups.Add(ctx, 1, attrs)
	m.LookupDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// RecordStale counts a discarded stale result.
func (m *Metrics) RecordStale(ctx context.Context) {
	if m == nil {
		return
	}
	m.StaleDiscards.Add(ctx, 1)
}

// RecordRemoteFailure counts a failed remote lookup by reason.
func (m *Metrics) RecordRemoteFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.RemoteFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
