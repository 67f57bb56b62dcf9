// Package stress ports the reference allocator's example drivers and test
// library (original_source/examples/, original_source/examples/lib/
// testlib.c) into a harness that exercises internal/allocator.Heap through
// its public API. None of this package is part of the allocator's core —
// spec.md §1 is explicit that stress harnesses, pattern verification and
// shuffling are consumers, not part of the core.
package stress

import (
	"fmt"
	"unsafe"

	"github.com/lucidm/YAMAL/internal/allocator"
)

// patterns mirrors testlib.h's tpat enum: a repeating byte tag written
// across a live allocation's payload so VerifyPatterns can detect
// corruption or a realloc that mishandled the copy.
var patterns = [...]byte{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H'}

// Record tracks one slot of the stress table, mirroring testlib.c's
// struct alloc (size, pattern, used, address).
type Record struct {
	Size    uintptr
	Pattern byte
	Used    bool
	Addr    unsafe.Pointer
}

// Table drives a fixed number of slots against a single Heap, the Go
// analogue of testlib.c's global `struct alloc allocs[MAXALLOCATIONS]`
// plus its allocateblocks/reallocblocks/freeblocks/consistency/
// patternmatching functions.
type Table struct {
	heap    *allocator.Heap
	records []Record
}

// NewTable creates a stress table with count slots over h.
func NewTable(h *allocator.Heap, count int) *Table {
	return &Table{
		heap:    h,
		records: make([]Record, count),
	}
}

// Records exposes a copy of the current slot state for reporting.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)

	return out
}

// visitOrder returns order if non-nil, otherwise the ascending identity
// permutation over n slots. AllocateAll/ReallocateAll visit slots in this
// order, so a caller that wants a shuffled round (e.g. via stress.Shuffle)
// actually gets one instead of it being silently ignored.
func visitOrder(order []int, n int) []int {
	if order != nil {
		return order
	}

	return Identity(n)
}

// AllocateAll allocates every unused slot with the size sizer returns for
// it, tags it with a pattern from the rotating set, and writes the
// pattern across the payload. Slots are visited in order (use a shuffled
// permutation from stress.Shuffle for randomized visit order, or nil for
// ascending). It returns the number of slots that failed to allocate,
// mirroring testlib.c's allocateblocks returning a failure count rather
// than aborting the run.
func (t *Table) AllocateAll(order []int, sizer func(slot int) uintptr) int {
	failures := 0

	for _, i := range visitOrder(order, len(t.records)) {
		r := &t.records[i]
		if r.Used {
			continue
		}

		size := sizer(i)

		p := t.heap.Allocate(size)
		if p == nil {
			failures++
			continue
		}

		pattern := patterns[i%len(patterns)]
		writePattern(p, size, pattern)

		r.Size = size
		r.Pattern = pattern
		r.Used = true
		r.Addr = p
	}

	return failures
}

// ReallocateAll reallocates every used slot to a new size, writes the
// pattern only across bytes past the old size (the copied prefix is left
// as Reallocate produced it, for VerifyPatterns to check) and records the
// new address. Slots are visited in order (use a shuffled permutation from
// stress.Shuffle for randomized visit order, or nil for ascending).
// Mirrors testlib.c's reallocblocks.
func (t *Table) ReallocateAll(order []int, sizer func(slot int) uintptr) int {
	failures := 0

	for _, i := range visitOrder(order, len(t.records)) {
		r := &t.records[i]
		if !r.Used {
			continue
		}

		newSize := sizer(i)

		p := t.heap.Reallocate(r.Addr, newSize)
		if p == nil {
			failures++
			continue
		}

		if newSize > r.Size {
			writePattern(unsafe.Add(p, r.Size), newSize-r.Size, r.Pattern)
		}
		r.Size = newSize
		r.Addr = p
	}

	return failures
}

// FreeAll frees every used slot and clears its record. Mirrors testlib.c's
// freeblocks.
func (t *Table) FreeAll() {
	for i := range t.records {
		r := &t.records[i]
		if !r.Used {
			continue
		}

		t.heap.Free(r.Addr)
		*r = Record{}
	}
}

// CheckConsistency runs Heap.Verify and cross-checks every used slot
// against the heap's own view of its block, the Go analogue of
// testlib.c's consistency() function.
func (t *Table) CheckConsistency() error {
	if err := t.heap.Verify(); err != nil {
		return err
	}

	for i := range t.records {
		r := &t.records[i]
		if !r.Used {
			continue
		}

		footprint, free, ok := t.heap.BlockOf(r.Addr)
		if !ok {
			return fmt.Errorf("slot %d: address no longer resolves to a block", i)
		}

		if free {
			return fmt.Errorf("slot %d: block reports free while table considers it live", i)
		}

		if footprint < r.Size {
			return fmt.Errorf("slot %d: block footprint %d smaller than recorded size %d", i, footprint, r.Size)
		}
	}

	return nil
}

// VerifyPatterns re-reads every live slot's payload and fails on the
// first byte that doesn't match its recorded pattern — the repeatable
// form of spec.md §8 property 9 (pattern survives reallocate). Mirrors
// testlib.c's patternmatching().
func (t *Table) VerifyPatterns() error {
	for i := range t.records {
		r := &t.records[i]
		if !r.Used {
			continue
		}

		buf := (*[1 << 20]byte)(r.Addr)[:r.Size:r.Size]
		for j, b := range buf {
			if b != r.Pattern {
				return fmt.Errorf("slot %d: byte %d is 0x%02x, want pattern 0x%02x", i, j, b, r.Pattern)
			}
		}
	}

	return nil
}

func writePattern(p unsafe.Pointer, size uintptr, pattern byte) {
	if size == 0 {
		return
	}

	buf := (*[1 << 20]byte)(p)[:size:size]
	for i := range buf {
		buf[i] = pattern
	}
}
