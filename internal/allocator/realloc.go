package allocator

import "unsafe"

// Reallocate implements spec.md §4.8's four cases in order: both-nil
// delegates to Allocate(0), nil-pointer delegates to Allocate(n),
// zero-size delegates to Free and returns nil, and the general case tries
// shrink-in-place, then grow-by-absorption, before falling back to
// allocate/copy/free. On a failed grow-by-relocation the original block is
// left completely untouched and nil is returned.
func (h *Heap) Reallocate(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	if p == nil {
		return h.Allocate(n)
	}

	if n == 0 {
		h.Free(p)
		return nil
	}

	off, ok := h.offsetFromPayload(p)
	if !ok {
		return nil
	}

	target := h.alignUp(n + headerSize)
	hdr := h.headerAt(off)

	if h.footprint(hdr) >= target {
		h.split(off, target)
		return p
	}

	if hdr.next != nullOffset {
		next := h.headerAt(hdr.next)
		if h.isFree(next) && h.footprint(hdr)+h.footprint(next) >= target {
			h.join(off, true)
			h.split(off, target)

			return p
		}
	}

	newPtr := h.Allocate(n)
	if newPtr == nil {
		return nil
	}

	oldPayload := h.footprint(hdr) - headerSize
	copySize := oldPayload
	if n < copySize {
		copySize = n
	}

	if copySize > 0 {
		h.copy(newPtr, p, copySize)
	}

	h.Free(p)

	return newPtr
}
