package allocator

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestRandomSequenceHoldsInvariants runs many random allocate/free/
// reallocate operations against one heap and checks, after every single
// operation, the universal invariants from spec.md §8: every block's
// footprint and address are in range, blocks tile contiguously, and the
// sum of all footprints equals capacity exactly (property 1-3).
func TestRandomSequenceHoldsInvariants(t *testing.T) {
	const capacity = 64 * 1024

	h := newTestHeap(t, capacity)
	rng := rand.New(rand.NewSource(1))

	var live []unsafe.Pointer

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			size := uintptr(rng.Intn(600))
			if p := h.Allocate(size); p != nil {
				live = append(live, p)
			}
		case 1:
			if len(live) > 0 {
				idx := rng.Intn(len(live))
				h.Free(live[idx])
				live = append(live[:idx], live[idx+1:]...)
			}
		case 2:
			if len(live) > 0 {
				idx := rng.Intn(len(live))
				size := uintptr(rng.Intn(600))
				if p := h.Reallocate(live[idx], size); p != nil {
					live[idx] = p
				} else if size == 0 {
					live = append(live[:idx], live[idx+1:]...)
				}
			}
		}

		require.NoError(t, h.Verify())

		stats := h.Report()
		require.EqualValues(t, capacity, stats.TotalFootprint)
	}
}

// TestFreeNeverLeavesAdjacentFreePair is property 4, driven over a random
// sequence rather than a single scenario.
func TestFreeNeverLeavesAdjacentFreePair(t *testing.T) {
	const capacity = 16 * 1024

	h := newTestHeap(t, capacity)
	rng := rand.New(rand.NewSource(7))

	var live []unsafe.Pointer

	for i := 0; i < 500; i++ {
		size := uintptr(50 + rng.Intn(300))
		if p := h.Allocate(size); p != nil {
			live = append(live, p)
		}

		if len(live) > 3 && rng.Intn(2) == 0 {
			idx := rng.Intn(len(live))
			h.Free(live[idx])
			live = append(live[:idx], live[idx+1:]...)

			require.True(t, noAdjacentFreePairs(h))
		}
	}
}

func noAdjacentFreePairs(h *Heap) bool {
	if !h.initialized {
		return true
	}

	off := h.first

	for {
		hdr := h.headerAt(off)
		if hdr.next == nullOffset {
			return true
		}

		next := h.headerAt(hdr.next)
		if h.isFree(hdr) && h.isFree(next) {
			return false
		}

		off = hdr.next
	}
}
