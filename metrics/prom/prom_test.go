package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/lruk/replacer"
)

// gauge reads the current value of a gathered gauge by full name.
func gauge(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Equal(t, dto.MetricType_GAUGE, mf.GetType())
		require.Len(t, mf.GetMetric(), 1)
		return mf.GetMetric()[0].GetGauge().GetValue()
	}
	t.Fatalf("metric %q not gathered", name)
	return 0
}

// The adapter receives replacer hooks and exposes them on its registry.
func TestAdapter_WiredIntoReplacer(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "lruk", "test", prometheus.Labels{"pool": "unit"})

	r, err := replacer.New(replacer.Options{Capacity: 4, K: 2, Metrics: a})
	require.NoError(t, err)

	for _, f := range []replacer.FrameID{0, 1, 2, 2} {
		require.NoError(t, r.RecordAccess(f))
	}
	require.NoError(t, r.SetEvictable(1, false))

	victim, ok := r.Evict()
	require.True(t, ok)
	require.Equal(t, replacer.FrameID(0), victim)
	require.NoError(t, r.Remove(2))
	_, ok = r.Evict()
	require.False(t, ok)

	require.Equal(t, 4.0, testutil.ToFloat64(a.accesses))
	require.Equal(t, 1.0, testutil.ToFloat64(a.retired.WithLabelValues("evict")))
	require.Equal(t, 1.0, testutil.ToFloat64(a.retired.WithLabelValues("remove")))
	require.Equal(t, 1.0, testutil.ToFloat64(a.evictMiss))

	require.Equal(t, 0.0, gauge(t, reg, "lruk_test_evictable_frames"))
	require.Equal(t, 1.0, gauge(t, reg, "lruk_test_tracked_frames"))
}

func TestAdapter_NilRegistererUsesDefault(t *testing.T) {
	// Not parallel: touches the process-wide default registry.
	a := New(nil, "lruk", "default_reg_test", nil)
	t.Cleanup(func() {
		prometheus.DefaultRegisterer.Unregister(a.accesses)
		prometheus.DefaultRegisterer.Unregister(a.retired)
		prometheus.DefaultRegisterer.Unregister(a.evictMiss)
		prometheus.DefaultRegisterer.Unregister(a.evictable)
		prometheus.DefaultRegisterer.Unregister(a.trackedEnt)
	})

	a.Access()
	require.Equal(t, 1.0, testutil.ToFloat64(a.accesses))

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "lruk_default_reg_test_accesses_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
