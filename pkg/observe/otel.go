package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RegisterOTel registers observable instruments that report the statistics of
// src on every collection. Instruments carry a "pool" attribute.
func RegisterOTel(meter metric.Meter, pool string, src StatsSource) (metric.Registration, error) {
	attrs := metric.WithAttributes(attribute.String("pool", pool))

	available, err := meter.Int64ObservableGauge("instancepool.available",
		metric.WithDescription("Instances parked in the free list"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}
	unrecycled, err := meter.Int64ObservableGauge("instancepool.unrecycled",
		metric.WithDescription("Instances obtained and not yet recycled"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}
	allocated, err := meter.Int64ObservableCounter("instancepool.allocated",
		metric.WithDescription("Instances created by the factory"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}
	discarded, err := meter.Int64ObservableCounter("instancepool.discarded",
		metric.WithDescription("Recycled instances dropped because the free list was full"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}
	exhaustions, err := meter.Int64ObservableCounter("instancepool.exhaustions",
		metric.WithDescription("Obtain calls that found the free list empty"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := src.Stats()
		o.ObserveInt64(available, int64(s.Available), attrs)
		o.ObserveInt64(unrecycled, int64(s.Unrecycled), attrs)
		o.ObserveInt64(allocated, int64(s.Allocated), attrs)
		o.ObserveInt64(discarded, int64(s.Discarded), attrs)
		o.ObserveInt64(exhaustions, int64(s.Exhaustions), attrs)
		return nil
	}, available, unrecycled, allocated, discarded, exhaustions)
}
