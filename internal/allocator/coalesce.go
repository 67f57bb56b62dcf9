package allocator

// coalesceWalk sweeps the list from the first block, joining every run of
// adjacent free blocks it finds — spec.md §4.4's tie-adjacent walk. It
// never advances past a block it just absorbed into, so a run of N
// consecutive free blocks collapses into one in a single pass.
func (h *Heap) coalesceWalk() {
	off := h.first

	for {
		hdr := h.headerAt(off)

		if hdr.next == nullOffset {
			return
		}

		if h.isFree(hdr) && h.join(off, false) {
			continue // stay on off, it may absorb further free runs
		}

		off = hdr.next
	}
}
