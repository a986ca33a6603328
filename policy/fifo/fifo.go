// Package fifo implements the insertion-ordered tier used for frames that
// have not yet collected K accesses.
package fifo

import (
	"math"

	"github.com/IvanBrykalov/lruk/policy"
)

// link is one arena slot. Slots are addressed by frame id, so unlinking a
// frame never invalidates any other slot.
type link struct {
	prev, next int32
	in         bool
}

// fifo is an intrusive doubly linked list laid out in a fixed slice.
// The slot at index len(links)-1 is the sentinel: its next is the oldest
// frame (front) and its prev is the newest (back).
type fifo struct {
	links []link
	head  int32 // sentinel index
	n     int
}

// New returns an empty tier able to hold frame ids in [0, capacity).
// Links are int32, so capacity above math.MaxInt32 panics.
func New(capacity int) policy.Tier {
	if capacity > math.MaxInt32 {
		panic("fifo: capacity exceeds int32 range")
	}
	if capacity < 0 {
		capacity = 0
	}
	q := &fifo{
		links: make([]link, capacity+1),
		head:  int32(capacity),
	}
	q.links[q.head] = link{prev: q.head, next: q.head}
	return q
}

// Insert appends frame at the newest end. kth is ignored: ordering is by
// arrival only. Inserting a frame twice panics.
func (q *fifo) Insert(frame int, _ uint64) {
	e := &q.links[frame]
	if e.in {
		panic("fifo: frame inserted twice")
	}
	id := int32(frame)
	tail := q.links[q.head].prev
	e.prev = tail
	e.next = q.head
	e.in = true
	q.links[tail].next = id
	q.links[q.head].prev = id
	q.n++
}

// Remove unlinks frame in O(1). Removing an absent frame is a no-op.
func (q *fifo) Remove(frame int, _ uint64) {
	e := &q.links[frame]
	if !e.in {
		return
	}
	q.links[e.prev].next = e.next
	q.links[e.next].prev = e.prev
	*e = link{}
	q.n--
}

// Ascend walks from the oldest inserted frame to the newest.
func (q *fifo) Ascend(fn func(frame int) bool) {
	for i := q.links[q.head].next; i != q.head; i = q.links[i].next {
		if !fn(int(i)) {
			return
		}
	}
}

// Len returns the number of linked frames.
func (q *fifo) Len() int { return q.n }
