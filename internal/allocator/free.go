package allocator

import "unsafe"

// Free releases a payload address previously returned by Allocate or
// Reallocate. Per spec.md §4.7, a nil pointer is a no-op, freeing an
// already-free block is a no-op, and the region is swept with a full
// coalesce walk afterward (the allocator has no predecessor pointer, so
// this is the only way to merge with a free left neighbor).
func (h *Heap) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	off, ok := h.offsetFromPayload(p)
	if !ok {
		return
	}

	hdr := h.headerAt(off)
	if h.isFree(hdr) {
		return
	}

	h.setFree(hdr, true)
	h.coalesceWalk()
}
