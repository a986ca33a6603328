// Package replacer implements the LRU-K frame replacement policy a buffer
// pool uses to choose which in-memory frame to reclaim.
//
// Design
//
//   - History: every tracked frame keeps its last K access timestamps in a
//     bounded ring. Timestamps come from a logical clock owned by the
//     replacer that advances once per RecordAccess.
//
//   - Early tier: frames with 1..K-1 accesses. Their backward K-distance is
//     infinite, so they are always evicted before any frame that has K
//     accesses. Among themselves they leave in arrival order (first access).
//
//   - Stable tier: frames with K or more accesses, ranked by the timestamp
//     of their Kth-most-recent access. The oldest one has the largest
//     K-distance and is evicted first. Each access re-ranks the frame.
//
//   - Evictability: a per-frame pin flag set through SetEvictable. Pinned
//     frames stay ranked but are skipped by Evict and refused by Remove.
//     Size counts tracked frames that are evictable.
//
//   - Metrics: Options.Metrics receives Access/Retire/EvictMiss/Size
//     signals. NoopMetrics is the default; metrics/prom exports them.
//
// Basic usage
//
//	r, err := replacer.New(replacer.Options{Capacity: 64, K: 2})
//	if err != nil {
//	    return err
//	}
//	_ = r.RecordAccess(3)          // frame 3 touched, evictable by default
//	_ = r.SetEvictable(3, false)   // pinned while in use
//	_ = r.SetEvictable(3, true)    // unpinned
//	if victim, ok := r.Evict(); ok {
//	    _ = victim // reuse this frame
//	}
//
// Thread-safety & complexity
//
// All methods are safe for concurrent use; one mutex covers the whole state.
// RecordAccess and Remove are O(log n) in the number of stable frames.
// Evict is O(n) in the worst case when many early frames are pinned.
package replacer
