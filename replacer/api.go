package replacer

// FrameID names a buffer-pool slot. Valid ids lie in [0, Options.Capacity).
type FrameID int

// Replacer picks which buffer-pool frame to reclaim next using LRU-K.
// All methods are safe for concurrent use by multiple goroutines; each call
// runs under one lock and is linearizable with respect to the others.
type Replacer interface {
	// RecordAccess registers one access to frame at the next logical tick.
	// The first access starts tracking the frame and marks it evictable.
	// Returns ErrInvalidFrame if frame is out of range.
	RecordAccess(frame FrameID) error

	// Evict retires and returns the evictable frame with the largest
	// backward K-distance. Frames with fewer than K accesses always go
	// before frames with K or more. The boolean is false when no tracked
	// frame is evictable.
	Evict() (FrameID, bool)

	// SetEvictable marks frame as evictable (unpinned) or not (pinned).
	// It is a no-op for untracked frames and when the flag already matches.
	// Returns ErrInvalidFrame if frame is out of range.
	SetEvictable(frame FrameID, evictable bool) error

	// Remove retires frame outside of the eviction order, dropping its
	// access history. It is a no-op for untracked frames. Returns
	// ErrInvalidFrame if frame is out of range and ErrNotEvictable if the
	// frame is pinned; state is unchanged on error.
	Remove(frame FrameID) error

	// Size returns the number of tracked frames that are evictable.
	Size() int

	// Stats returns a point-in-time snapshot of counters and tier sizes.
	Stats() Stats

	// History returns a copy of the retained access timestamps of frame,
	// oldest first. It is empty for untracked frames.
	History(frame FrameID) ([]uint64, error)
}

// Stats is a snapshot of replacer state and lifetime counters.
type Stats struct {
	Evictable int // same as Size()
	Tracked   int // frames with at least one recorded access
	Early     int // tracked frames with fewer than K accesses
	Stable    int // tracked frames with K or more accesses

	Accesses    uint64 // successful RecordAccess calls
	Evictions   uint64 // frames returned by Evict
	Removals    uint64 // frames retired by Remove
	EvictMisses uint64 // Evict calls that found no candidate

	Clock uint64 // current logical timestamp
}
