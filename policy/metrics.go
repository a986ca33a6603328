package policy

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	tierOperationsPrometheusMetrics sync.Once

	tierOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lruk",
			Subsystem: "tier",
			Name:      "operations_total",
			Help:      "Total number of operations against replacer ranking tiers.",
		},
		[]string{"name", "operation"})
)

type metricsTier struct {
	base Tier

	insert prometheus.Counter
	remove prometheus.Counter
	ascend prometheus.Counter
}

// NewMetricsTier is a decorator for Tier that exposes the total number of
// operations performed against the underlying Tier through Prometheus.
// Counters are registered on the default registerer on first use.
func NewMetricsTier(base Tier, name string) Tier {
	tierOperationsPrometheusMetrics.Do(func() {
		prometheus.MustRegister(tierOperationsTotal)
	})

	return &metricsTier{
		base: base,

		insert: tierOperationsTotal.WithLabelValues(name, "Insert"),
		remove: tierOperationsTotal.WithLabelValues(name, "Remove"),
		ascend: tierOperationsTotal.WithLabelValues(name, "Ascend"),
	}
}

func (t *metricsTier) Insert(frame int, kth uint64) {
	t.insert.Inc()
	t.base.Insert(frame, kth)
}

func (t *metricsTier) Remove(frame int, kth uint64) {
	t.remove.Inc()
	t.base.Remove(frame, kth)
}

func (t *metricsTier) Ascend(fn func(frame int) bool) {
	t.ascend.Inc()
	t.base.Ascend(fn)
}

func (t *metricsTier) Len() int { return t.base.Len() }
