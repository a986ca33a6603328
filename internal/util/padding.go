// Package util contains internal helpers shared by the replacer packages.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is 64 bytes on the platforms we care about.
const CacheLineSize = 64

// CacheLinePad separates lock-guarded state from counters that are read
// without the lock.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicUint64 is an atomic counter occupying a full cache line, so
// readers polling one counter do not contend with writers of another.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

var _ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte
