package replacer

// history is a bounded ring of the most recent access timestamps of one
// frame. It grows by append until it holds limit entries; after that each
// push overwrites the oldest slot. Storage is proportional to the accesses
// actually recorded, never to limit.
type history struct {
	ts   []uint64
	head int // index of the oldest entry once the ring is full
}

// push records ts, dropping the oldest entry once limit is reached.
func (h *history) push(ts uint64, limit int) {
	if len(h.ts) < limit {
		h.ts = append(h.ts, ts)
		return
	}
	h.ts[h.head] = ts
	h.head++
	if h.head == len(h.ts) {
		h.head = 0
	}
}

// kth returns the oldest retained timestamp. Once the ring is full this is
// the Kth-most-recent access. Zero when empty.
func (h *history) kth() uint64 {
	if len(h.ts) == 0 {
		return 0
	}
	return h.ts[h.head]
}

func (h *history) len() int { return len(h.ts) }

// reset forgets all entries but keeps the backing array for reuse.
func (h *history) reset() {
	h.ts = h.ts[:0]
	h.head = 0
}

// snapshot copies the retained timestamps, oldest first.
func (h *history) snapshot() []uint64 {
	out := make([]uint64, 0, len(h.ts))
	out = append(out, h.ts[h.head:]...)
	return append(out, h.ts[:h.head]...)
}
