package replacer

import (
	"fmt"
	"math"
)

type constError string

func (errStr constError) Error() string { return string(errStr) }

const (
	// ErrInvalidFrame is returned when a frame id lies outside [0, Capacity).
	// It signals caller misuse; nothing is mutated.
	ErrInvalidFrame = constError("invalid frame id")

	// ErrNotEvictable is returned by Remove for a pinned frame.
	// Unpin it with SetEvictable first.
	ErrNotEvictable = constError("frame is not evictable")

	// ErrInvalidCapacity may be returned from [New].
	ErrInvalidCapacity = constError("invalid capacity")

	// ErrInvalidK may be returned from [New].
	ErrInvalidK = constError("invalid k")
)

func frameRangeError(op string, frame FrameID, capacity int) error {
	return fmt.Errorf("%s: %w: %d is outside [0, %d)", op, ErrInvalidFrame, frame, capacity)
}

func pinnedError(frame FrameID) error {
	return fmt.Errorf("remove: %w: frame %d is pinned", ErrNotEvictable, frame)
}

func capacityError(capacity int) error {
	return fmt.Errorf("%w: must be in (0, %d] but %d was requested", ErrInvalidCapacity, math.MaxInt32, capacity)
}

func kError(k int) error {
	return fmt.Errorf("%w: must be >=1 but %d was requested", ErrInvalidK, k)
}
