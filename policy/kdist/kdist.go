// Package kdist implements the tier for frames with at least K recorded
// accesses, ordered by backward K-distance.
package kdist

import (
	"github.com/google/btree"

	"github.com/IvanBrykalov/lruk/policy"
)

// degree is the B-tree branching factor. 32 keeps nodes within a few cache
// lines for 16-byte items.
const degree = 32

// item is the ordering key: the Kth-back timestamp first, the frame id as a
// tie-breaker so every key is unique.
type item struct {
	kth   uint64
	frame int
}

func less(a, b item) bool {
	if a.kth != b.kth {
		return a.kth < b.kth
	}
	return a.frame < b.frame
}

// kdist keeps frames in ascending Kth-back timestamp order, which is
// descending backward K-distance: the front of the tree is the coldest frame.
type kdist struct {
	tree *btree.BTreeG[item]
}

// New returns an empty K-distance tier.
func New() policy.Tier {
	return &kdist{tree: btree.NewG[item](degree, less)}
}

// Insert ranks frame by kth. Re-ranking is Remove followed by Insert.
func (d *kdist) Insert(frame int, kth uint64) {
	if _, dup := d.tree.ReplaceOrInsert(item{kth: kth, frame: frame}); dup {
		panic("kdist: frame inserted twice at the same timestamp")
	}
}

// Remove deletes the entry for frame at kth. A missing entry is a no-op.
func (d *kdist) Remove(frame int, kth uint64) {
	d.tree.Delete(item{kth: kth, frame: frame})
}

// Ascend walks frames from the oldest Kth-back timestamp to the newest.
func (d *kdist) Ascend(fn func(frame int) bool) {
	d.tree.Ascend(func(it item) bool { return fn(it.frame) })
}

// Len returns the number of ranked frames.
func (d *kdist) Len() int { return d.tree.Len() }
