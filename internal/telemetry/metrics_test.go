package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out
}

func TestPoolInstrumentsRecordLifecycle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := NewProviderWithReader(reader)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	inst := NewPoolInstruments(provider.Meter("test"))
	attrs := PoolAttributes("reg-1", "list[int]", "")

	inst.Acquired(attrs, true)
	inst.Acquired(attrs, false)
	inst.Released(attrs)
	inst.DoubleReleased(attrs)
	inst.LeakWarned(attrs)

	sums := collectSums(t, reader)
	require.Equal(t, int64(2), sums[MetricAcquire])
	require.Equal(t, int64(1), sums[MetricConstruct])
	require.Equal(t, int64(1), sums[MetricRelease])
	require.Equal(t, int64(1), sums[MetricOutstanding])
	require.Equal(t, int64(1), sums[MetricDoubleRelease])
	require.Equal(t, int64(1), sums[MetricLeakWarning])
}

func TestNilInstrumentsAreSafe(t *testing.T) {
	var inst *PoolInstruments
	attrs := PoolAttributes("", "x", "")
	inst.Acquired(attrs, true)
	inst.Released(attrs)
	inst.DoubleReleased(attrs)
	inst.LeakWarned(attrs)
}

func TestDisabledProviderHandsOutNoopMeter(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, provider.Meter("x"))
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestStripScheme(t *testing.T) {
	require.Equal(t, "collector:4318", stripScheme("http://collector:4318"))
	require.Equal(t, "collector:4318", stripScheme("https://collector:4318"))
	require.Equal(t, "collector:4318", stripScheme("collector:4318"))
}
