package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instrument names recorded by pools.
const (
	MetricAcquire       = "pool.acquire"
	MetricRelease       = "pool.release"
	MetricConstruct     = "pool.construct"
	MetricDoubleRelease = "pool.double_release"
	MetricLeakWarning   = "pool.leak_warning"
	MetricOutstanding   = "pool.outstanding"
)

// PoolInstruments bundles the counters shared by every pool in a registry.
type PoolInstruments struct {
	acquire       metric.Int64Counter
	release       metric.Int64Counter
	construct     metric.Int64Counter
	doubleRelease metric.Int64Counter
	leakWarning   metric.Int64Counter
	outstanding   metric.Int64UpDownCounter
}

// NewPoolInstruments creates pool instruments on the given meter. A nil meter
// yields noop instruments.
func NewPoolInstruments(meter metric.Meter) *PoolInstruments {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("framepool/pool")
	}
	inst := new(PoolInstruments)
	inst.acquire, _ = meter.Int64Counter(MetricAcquire,
		metric.WithDescription("Instances handed out by a pool"),
		metric.WithUnit("{instance}"))
	inst.release, _ = meter.Int64Counter(MetricRelease,
		metric.WithDescription("Instances returned to a pool"),
		metric.WithUnit("{instance}"))
	inst.construct, _ = meter.Int64Counter(MetricConstruct,
		metric.WithDescription("Instances constructed because the free list was empty"),
		metric.WithUnit("{instance}"))
	inst.doubleRelease, _ = meter.Int64Counter(MetricDoubleRelease,
		metric.WithDescription("Releases ignored because the instance was already pooled"),
		metric.WithUnit("{instance}"))
	inst.leakWarning, _ = meter.Int64Counter(MetricLeakWarning,
		metric.WithDescription("Times the outstanding count crossed the leak threshold"),
		metric.WithUnit("{warning}"))
	inst.outstanding, _ = meter.Int64UpDownCounter(MetricOutstanding,
		metric.WithDescription("Instances currently checked out"),
		metric.WithUnit("{instance}"))
	return inst
}

// Acquired records a checkout; constructed is true when the free list was empty.
func (i *PoolInstruments) Acquired(attrs attribute.Set, constructed bool) {
	if i == nil {
		return
	}
	ctx := context.Background()
	opt := metric.WithAttributeSet(attrs)
	i.acquire.Add(ctx, 1, opt)
	i.outstanding.Add(ctx, 1, opt)
	if constructed {
		i.construct.Add(ctx, 1, opt)
	}
}

// Released records a successful return to the free list.
func (i *PoolInstruments) Released(attrs attribute.Set) {
	if i == nil {
		return
	}
	ctx := context.Background()
	opt := metric.WithAttributeSet(attrs)
	i.release.Add(ctx, 1, opt)
	i.outstanding.Add(ctx, -1, opt)
}

// DoubleReleased records an ignored release.
func (i *PoolInstruments) DoubleReleased(attrs attribute.Set) {
	if i == nil {
		return
	}
	i.doubleRelease.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
}

// LeakWarned records a leak threshold crossing.
func (i *PoolInstruments) LeakWarned(attrs attribute.Set) {
	if i == nil {
		return
	}
	i.leakWarning.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
}
