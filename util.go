package bitstream

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// Roundup rounds n up to the nearest multiple of align (a power of two).
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// byteCount returns the number of bytes needed to hold n bits.
func byteCount(n int) int { return Roundup(n, 8) >> 3 }

const scratchSize = 4096

// scratchPool reuses encode buffers for bulk writes so that slice appends
// below scratchSize bytes stay allocation-free.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, scratchSize)
		return &b
	},
}

// getScratch returns a buffer of n bytes, pooled when small enough.
// The second result must be handed back to putScratch.
func getScratch(n int) ([]byte, *[]byte) {
	if n <= scratchSize {
		pooled := scratchPool.Get().(*[]byte)
		return (*pooled)[:n], pooled
	}
	return make([]byte, n), nil
}

func putScratch(pooled *[]byte) {
	if pooled != nil {
		scratchPool.Put(pooled)
	}
}
