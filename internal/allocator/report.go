package allocator

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/lucidm/YAMAL/internal/errs"
)

// Stats summarizes a single Report/Verify pass over the block list.
type Stats struct {
	Blocks         int
	FreeBlocks     int
	UsedBlocks     int
	TotalFootprint uintptr
	FreeFootprint  uintptr
	UsedFootprint  uintptr
	UsedPayload    uintptr
}

// Verify walks the block list validating its structural invariants:
// header addresses in range, footprints in [H, capacity], next pointers in
// range or null, and contiguous tiling between consecutive blocks. It does
// not check that adjacent blocks are never both free, nor alignment. It
// returns the first violation found, wrapped as errs.CorruptHeap, or nil.
// Per spec.md §4.9/§7, the contract on a violation is to report and halt —
// Heap itself never panics, callers that want the halt behavior do
// `if err := h.Verify(); err != nil { panic(err) }`.
func (h *Heap) Verify() error {
	if !h.initialized {
		return nil
	}

	off := h.first
	if uintptr(off) != 0 {
		return errs.CorruptHeap("first block is not at the base of the region",
			errs.Ctx{"first_offset": off})
	}

	for {
		hdr := h.headerAt(off)
		footprint := h.footprint(hdr)

		if footprint < headerSize || footprint > h.capacity() {
			return errs.CorruptHeap("block footprint out of range",
				errs.Ctx{"offset": off, "footprint": footprint})
		}

		if uintptr(off)+footprint > h.capacity() {
			return errs.CorruptHeap("block extends past the end of the region",
				errs.Ctx{"offset": off, "footprint": footprint})
		}

		if hdr.next == nullOffset {
			if uintptr(off)+footprint != h.capacity() {
				return errs.CorruptHeap("last block does not end at base+capacity",
					errs.Ctx{"offset": off, "footprint": footprint})
			}

			return nil
		}

		if hdr.next >= uint32(h.capacity()) {
			return errs.CorruptHeap("next pointer out of range",
				errs.Ctx{"offset": off, "next": hdr.next})
		}

		if off+uint32(footprint) != hdr.next {
			return errs.CorruptHeap("blocks do not tile contiguously",
				errs.Ctx{"offset": off, "footprint": footprint, "next": hdr.next})
		}

		off = hdr.next
	}
}

// Report walks the block list, writing one diagnostic line per block
// through the configured Sink followed by a summary line, and returns the
// pass's Stats. When the Heap was constructed with WithDebug(true), it
// first runs Verify and panics on a corrupt heap, matching spec.md §4.9's
// "report and halt" contract.
func (h *Heap) Report() Stats {
	sink := h.output
	if sink == nil {
		sink = defaultSink
	}

	if h.debug {
		if err := h.Verify(); err != nil {
			panic(err)
		}
	}

	var stats Stats

	if !h.initialized {
		sink("heap not yet initialized (capacity=%d)\n", h.capacity())
		return stats
	}

	off := h.first
	index := 0

	for {
		hdr := h.headerAt(off)
		footprint := h.footprint(hdr)
		state := "used"

		if h.isFree(hdr) {
			state = "free"
			stats.FreeBlocks++
			stats.FreeFootprint += footprint
		} else {
			stats.UsedBlocks++
			stats.UsedFootprint += footprint
			stats.UsedPayload += footprint - headerSize
		}

		stats.Blocks++
		stats.TotalFootprint += footprint

		sink("block %3d: offset=%-8d footprint=%-8d state=%-4s payload=%p\n",
			index, off, footprint, state, h.payload(off))

		if hdr.next == nullOffset {
			break
		}

		off = hdr.next
		index++
	}

	sink("summary: blocks=%d used=%d free=%d total=%d used_bytes=%d free_bytes=%d payload_bytes=%d\n",
		stats.Blocks, stats.UsedBlocks, stats.FreeBlocks,
		stats.TotalFootprint, stats.UsedFootprint, stats.FreeFootprint, stats.UsedPayload)

	return stats
}

func defaultSink(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

// BlockOf reports the footprint and free/used state of the block owning
// payload address p, for tests and stress tooling that want to assert on
// a single allocation without walking the whole list. ok is false if p is
// not a live payload address within this heap.
func (h *Heap) BlockOf(p unsafe.Pointer) (footprint uintptr, free bool, ok bool) {
	off, ok := h.offsetFromPayload(p)
	if !ok {
		return 0, false, false
	}

	hdr := h.headerAt(off)

	return h.footprint(hdr), h.isFree(hdr), true
}
