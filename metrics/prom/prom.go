// Package prom exports replacer metrics through Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/lruk/replacer"
)

// Adapter implements replacer.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	accesses   prometheus.Counter
	retired    *prometheus.CounterVec
	evictMiss  prometheus.Counter
	evictable  prometheus.Gauge
	trackedEnt prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		accesses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "accesses_total",
			Help:        "Recorded frame accesses",
			ConstLabels: constLabels,
		}),
		retired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "retired_frames_total",
				Help:        "Frames that stopped being tracked, by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		evictMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evict_misses_total",
			Help:        "Evict calls that found no evictable frame",
			ConstLabels: constLabels,
		}),
		evictable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evictable_frames",
			Help:        "Tracked frames currently eligible for eviction",
			ConstLabels: constLabels,
		}),
		trackedEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "tracked_frames",
			Help:        "Frames with recorded access history",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.accesses, a.retired, a.evictMiss, a.evictable, a.trackedEnt)
	return a
}

// Access increments the access counter.
func (a *Adapter) Access() { a.accesses.Inc() }

// Retire increments the retirement counter with a reason label.
func (a *Adapter) Retire(r replacer.RetireReason) {
	a.retired.WithLabelValues(r.String()).Inc()
}

// EvictMiss increments the miss counter.
func (a *Adapter) EvictMiss() { a.evictMiss.Inc() }

// Size updates the evictable and tracked gauges.
func (a *Adapter) Size(evictable, tracked int) {
	a.evictable.Set(float64(evictable))
	a.trackedEnt.Set(float64(tracked))
}

// Compile-time check: ensure Adapter implements replacer.Metrics.
var _ replacer.Metrics = (*Adapter)(nil)
