package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names recorded by [Cache].
const (
	MetricHits       = "cache.hits"
	MetricMisses     = "cache.misses"
	MetricInsertions = "cache.insertions"
	MetricEvictions  = "cache.evictions"
	MetricEntries    = "cache.entries"
)

// AttributeName is the attribute key carrying the cache name.
const AttributeName = "cache.name"

type instruments struct {
	hits, misses,
	insertions, evictions metric.Int64Counter
	entries metric.Int64UpDownCounter
	attrs   metric.MeasurementOption
}

func newInstruments(meter metric.Meter, name string) (*instruments, error) {
	hits, err := meter.Int64Counter(
		MetricHits,
		metric.WithDescription("Lookups that found a cached entry"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		MetricMisses,
		metric.WithDescription("Lookups that found no cached entry"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	insertions, err := meter.Int64Counter(
		MetricInsertions,
		metric.WithDescription("Entries added to the cache"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		MetricEvictions,
		metric.WithDescription("Entries evicted by the clock sweep"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64UpDownCounter(
		MetricEntries,
		metric.WithDescription("Entries currently cached"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &instruments{
		hits:       hits,
		misses:     misses,
		insertions: insertions,
		evictions:  evictions,
		entries:    entries,
		attrs: metric.WithAttributes(
			attribute.String(AttributeName, name),
		),
	}, nil
}

func (in *instruments) lookup(ctx context.Context, hit bool) {
	if hit {
		in.hits.Add(ctx, 1, in.attrs)
	} else {
		in.misses.Add(ctx, 1, in.attrs)
	}
}

func (in *instruments) inserted(ctx context.Context) {
	in.insertions.Add(ctx, 1, in.attrs)
	in.entries.Add(ctx, 1, in.attrs)
}

func (in *instruments) evicted(ctx context.Context) {
	in.evictions.Add(ctx, 1, in.attrs)
	in.entries.Add(ctx, -1, in.attrs)
}

func (in *instruments) cleared(ctx context.Context, dropped int) {
	if dropped == 0 {
		return
	}
	in.entries.Add(ctx, -int64(dropped), in.attrs)
}
