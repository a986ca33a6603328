// Package policy defines the ranking tiers a replacer composes to order
// eviction candidates.
package policy

// Tier is an ordered set of frame ids. Ascend visits frames from the most
// evictable to the least evictable one.
//
// Concurrency: tiers are not safe for concurrent use; the owning replacer
// calls every method under its own lock.
//
// Semantics:
//   - Insert adds a frame that is not yet present. kth is the frame's
//     Kth-back access timestamp; tiers ordered by insertion ignore it.
//   - Remove detaches a present frame. The caller passes the same kth it
//     used on Insert so ordered tiers can locate the entry without an index.
//   - Ascend stops as soon as fn returns false. fn must not mutate the tier.
type Tier interface {
	Insert(frame int, kth uint64)
	Remove(frame int, kth uint64)
	Ascend(fn func(frame int) bool)
	Len() int
}
