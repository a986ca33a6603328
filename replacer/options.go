package replacer

import (
	"log/slog"
	"math"
)

// RetireReason explains why a frame stopped being tracked.
type RetireReason int

const (
	// RetireEvict: the frame was chosen by Evict.
	RetireEvict RetireReason = iota
	// RetireRemove: the caller retired the frame with Remove.
	RetireRemove
)

// String returns a stable lowercase name, usable as a metric label.
func (r RetireReason) String() string {
	switch r {
	case RetireRemove:
		return "remove"
	default:
		return "evict"
	}
}

// Metrics exposes replacer-level observability hooks.
// Hooks are invoked under the replacer lock; keep them cheap.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Access()
	Retire(reason RetireReason)
	EvictMiss()
	Size(evictable, tracked int)
}

// Options configures a replacer. Capacity and K are required; the rest
// fall back to defaults in New():
//   - nil Metrics => NoopMetrics
//   - nil Logger  => discard
type Options struct {
	// Capacity is the number of frame ids tracked: valid ids are [0, Capacity).
	// At most math.MaxInt32.
	Capacity int

	// K is the access-window size (>= 1). Frames with fewer than K recorded
	// accesses have infinite backward K-distance.
	K int

	// Observability
	Metrics Metrics
	Logger  *slog.Logger

	// InstrumentTiers wraps both ranking tiers with per-operation
	// Prometheus counters (registered on the default registerer).
	InstrumentTiers bool
}

func (o Options) validate() error {
	if o.Capacity <= 0 || o.Capacity > math.MaxInt32 {
		return capacityError(o.Capacity)
	}
	if o.K < 1 {
		return kError(o.K)
	}
	return nil
}
