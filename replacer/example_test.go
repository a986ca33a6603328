package replacer_test

import (
	"fmt"

	"github.com/IvanBrykalov/lruk/replacer"
)

func Example() {
	r, err := replacer.New(replacer.Options{Capacity: 8, K: 2})
	if err != nil {
		panic(err)
	}

	// Frame 1 is touched twice and reaches K; frames 2 and 3 only once.
	for _, f := range []replacer.FrameID{1, 2, 3, 1} {
		_ = r.RecordAccess(f)
	}
	// Frame 2 is pinned by a reader.
	_ = r.SetEvictable(2, false)

	for {
		victim, ok := r.Evict()
		if !ok {
			break
		}
		fmt.Println("evicted", victim)
	}
	fmt.Println("size", r.Size())
	// Output:
	// evicted 3
	// evicted 1
	// size 0
}
