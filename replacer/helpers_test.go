package replacer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newReplacer builds a replacer or fails the test.
func newReplacer(t testing.TB, capacity, k int) Replacer {
	t.Helper()
	r, err := New(Options{Capacity: capacity, K: k})
	require.NoError(t, err)
	return r
}

func mustAccess(t testing.TB, r Replacer, frames ...FrameID) {
	t.Helper()
	for _, f := range frames {
		require.NoError(t, r.RecordAccess(f))
	}
}

func mustSetEvictable(t testing.TB, r Replacer, evictable bool, frames ...FrameID) {
	t.Helper()
	for _, f := range frames {
		require.NoError(t, r.SetEvictable(f, evictable))
	}
}

func mustEvict(t testing.TB, r Replacer, want FrameID) {
	t.Helper()
	got, ok := r.Evict()
	require.True(t, ok, "Evict found no victim, want frame %d", want)
	require.Equal(t, want, got)
}

func mustMiss(t testing.TB, r Replacer) {
	t.Helper()
	got, ok := r.Evict()
	require.False(t, ok, "Evict returned frame %d, want none", got)
}

// checkInvariants inspects the internal state: every tracked frame sits in
// exactly one tier, history never exceeds K, the stable tier is sorted by
// Kth-back timestamp and the counters match a recount.
func checkInvariants(t testing.TB, rep Replacer) {
	t.Helper()
	r := rep.(*lruk)
	r.mu.Lock()
	defer r.mu.Unlock()

	inEarly := map[int]bool{}
	r.early.Ascend(func(f int) bool {
		require.False(t, inEarly[f], "frame %d linked twice in early tier", f)
		inEarly[f] = true
		return true
	})

	inStable := map[int]bool{}
	var prev uint64
	r.stable.Ascend(func(f int) bool {
		require.False(t, inStable[f], "frame %d ranked twice in stable tier", f)
		inStable[f] = true
		kth := r.frames[f].hist.kth()
		require.Greater(t, kth, prev, "stable tier out of order at frame %d", f)
		prev = kth
		return true
	})

	size, tracked := 0, 0
	for f := range r.frames {
		fr := &r.frames[f]
		n := fr.hist.len()
		require.LessOrEqual(t, n, r.k, "frame %d history exceeds K", f)
		if n == 0 {
			require.False(t, inEarly[f] || inStable[f], "untracked frame %d is ranked", f)
			continue
		}
		tracked++
		if fr.evictable {
			size++
		}
		if n < r.k {
			require.True(t, inEarly[f] && !inStable[f], "frame %d with %d accesses must be early only", f, n)
		} else {
			require.True(t, inStable[f] && !inEarly[f], "frame %d with %d accesses must be stable only", f, n)
		}
	}
	require.Equal(t, size, r.size, "evictable count")
	require.Equal(t, tracked, r.tracked, "tracked count")
	require.Equal(t, len(inEarly), r.early.Len())
	require.Equal(t, len(inStable), r.stable.Len())
}
