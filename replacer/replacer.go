package replacer

import (
	"log/slog"
	"sync"

	"github.com/IvanBrykalov/lruk/internal/util"
	"github.com/IvanBrykalov/lruk/policy"
	"github.com/IvanBrykalov/lruk/policy/fifo"
	"github.com/IvanBrykalov/lruk/policy/kdist"
)

// frame is the per-slot bookkeeping. A frame is tracked iff hist.len() > 0.
type frame struct {
	hist      history
	evictable bool
}

// lruk is the LRU-K replacer. Frames with fewer than K accesses live in the
// early tier (arrival order); the rest live in the stable tier ordered by
// Kth-back timestamp. Evict drains early before stable.
type lruk struct {
	// ---- guarded by mu ----
	mu      sync.Mutex
	frames  []frame // indexed by FrameID
	k       int
	clock   uint64 // logical time, +1 per RecordAccess
	size    int    // tracked && evictable
	tracked int
	early   policy.Tier
	stable  policy.Tier

	metrics Metrics
	log     *slog.Logger

	// ---- lifetime counters, readable without mu ----
	_           util.CacheLinePad
	accesses    util.PaddedAtomicUint64
	evictions   util.PaddedAtomicUint64
	removals    util.PaddedAtomicUint64
	evictMisses util.PaddedAtomicUint64
}

// New constructs an LRU-K replacer for opt.Capacity frames.
// Defaults:
//   - nil Metrics -> NoopMetrics
//   - nil Logger  -> discard
func New(opt Options) (Replacer, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}

	early, stable := fifo.New(opt.Capacity), kdist.New()
	if opt.InstrumentTiers {
		early = policy.NewMetricsTier(early, "early")
		stable = policy.NewMetricsTier(stable, "stable")
	}

	return &lruk{
		frames:  make([]frame, opt.Capacity),
		k:       opt.K,
		early:   early,
		stable:  stable,
		metrics: opt.Metrics,
		log:     opt.Logger.With(slog.String("component", "lruk")),
	}, nil
}

// RecordAccess stamps frame with the next tick and migrates it between
// tiers: first access joins early, the Kth access promotes to stable, and
// every later access re-ranks within stable.
func (r *lruk) RecordAccess(id FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.index("record access", id)
	if err != nil {
		return err
	}

	r.clock++
	fr := &r.frames[f]
	switch n := fr.hist.len(); {
	case n == 0:
		fr.evictable = true
		r.size++
		r.tracked++
		fr.hist.push(r.clock, r.k)
		if r.k == 1 {
			r.stable.Insert(f, fr.hist.kth())
		} else {
			r.early.Insert(f, 0)
		}
	case n < r.k:
		fr.hist.push(r.clock, r.k)
		if fr.hist.len() == r.k {
			r.early.Remove(f, 0)
			r.stable.Insert(f, fr.hist.kth())
		}
	default:
		r.stable.Remove(f, fr.hist.kth())
		fr.hist.push(r.clock, r.k)
		r.stable.Insert(f, fr.hist.kth())
	}

	r.accesses.Add(1)
	r.metrics.Access()
	r.metrics.Size(r.size, r.tracked)
	return nil
}

// Evict returns the first evictable frame of the early tier, else of the
// stable tier.
func (r *lruk) Evict() (FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size == 0 {
		r.evictMisses.Add(1)
		r.metrics.EvictMiss()
		return 0, false
	}

	victim := -1
	pick := func(f int) bool {
		if r.frames[f].evictable {
			victim = f
			return false
		}
		return true
	}
	r.early.Ascend(pick)
	if victim < 0 {
		r.stable.Ascend(pick)
	}
	if victim < 0 {
		// size > 0 guarantees a candidate; reaching here means the
		// registry and the tiers disagree.
		r.log.Error("evictable count out of sync with tiers", slog.Int("size", r.size))
		r.evictMisses.Add(1)
		r.metrics.EvictMiss()
		return 0, false
	}

	r.retireLocked(victim, RetireEvict)
	r.evictions.Add(1)
	return FrameID(victim), true
}

// SetEvictable toggles the pin state of a tracked frame and adjusts Size.
func (r *lruk) SetEvictable(id FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.index("set evictable", id)
	if err != nil {
		return err
	}
	fr := &r.frames[f]
	if fr.hist.len() == 0 || fr.evictable == evictable {
		return nil
	}
	fr.evictable = evictable
	if evictable {
		r.size++
	} else {
		r.size--
	}
	r.metrics.Size(r.size, r.tracked)
	return nil
}

// Remove retires an unpinned frame regardless of its rank.
func (r *lruk) Remove(id FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.index("remove", id)
	if err != nil {
		return err
	}
	fr := &r.frames[f]
	if fr.hist.len() == 0 {
		return nil
	}
	if !fr.evictable {
		return pinnedError(id)
	}
	r.retireLocked(f, RetireRemove)
	r.removals.Add(1)
	return nil
}

// Size returns the number of tracked, evictable frames.
func (r *lruk) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Stats returns a snapshot taken under mu. Counters are only bumped under
// mu, so they agree with the tier sizes.
func (r *lruk) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Evictable:   r.size,
		Tracked:     r.tracked,
		Early:       r.early.Len(),
		Stable:      r.stable.Len(),
		Clock:       r.clock,
		Accesses:    r.accesses.Load(),
		Evictions:   r.evictions.Load(),
		Removals:    r.removals.Load(),
		EvictMisses: r.evictMisses.Load(),
	}
}

// History returns a copy of the frame's retained timestamps, oldest first.
func (r *lruk) History(id FrameID) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.index("history", id)
	if err != nil {
		return nil, err
	}
	return r.frames[f].hist.snapshot(), nil
}

// -------------------- internals (mu held) --------------------

// index validates id against [0, capacity).
func (r *lruk) index(op string, id FrameID) (int, error) {
	if id < 0 || int(id) >= len(r.frames) {
		r.log.Debug("rejected frame id",
			slog.String("op", op), slog.Int("frame", int(id)), slog.Int("capacity", len(r.frames)))
		return 0, frameRangeError(op, id, len(r.frames))
	}
	return int(id), nil
}

// tierOf returns the tier currently holding the tracked frame f.
func (r *lruk) tierOf(f int) policy.Tier {
	if r.frames[f].hist.len() >= r.k {
		return r.stable
	}
	return r.early
}

// retireLocked detaches a tracked, evictable frame from its tier and clears
// its bookkeeping so a later access starts from scratch.
func (r *lruk) retireLocked(f int, reason RetireReason) {
	fr := &r.frames[f]
	r.tierOf(f).Remove(f, fr.hist.kth())
	fr.hist.reset()
	fr.evictable = false
	r.size--
	r.tracked--

	r.log.Debug("frame retired", slog.Int("frame", f), slog.String("reason", reason.String()))
	r.metrics.Retire(reason)
	r.metrics.Size(r.size, r.tracked)
}
