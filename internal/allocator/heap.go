package allocator

import (
	"fmt"
	"unsafe"

	"github.com/lucidm/YAMAL/internal/errs"
)

// blockHeader is the fixed-size in-band metadata at the start of every
// block. next is the byte offset (within Heap.region) of the successor
// header, or nullOffset for the last block. size is the block's footprint
// in bytes, header included. free is nonzero when the block is unused.
// reserved pads the struct to 16 bytes, a multiple of every alignment
// spec.md calls out as typical (4 and 8) — without it, payload(off) =
// off+headerSize would land off+12, which is never a multiple of 8 when
// off is, silently breaking invariant 7 under WithAlignment(8).
//
// Fields are fixed-width and in address order so offsetOf/headerAt can
// reinterpret a region byte slice as a header in place, the same way the
// teacher's ArenaAllocatorImpl reinterprets a []byte as an unsafe.Pointer
// payload without ever copying the backing array.
type blockHeader struct {
	next     uint32
	size     uint32
	free     uint32
	reserved uint32
}

const headerSize = uintptr(unsafe.Sizeof(blockHeader{}))

// nullOffset is the sentinel value for blockHeader.next meaning "no
// successor" (the last block in the list).
const nullOffset = ^uint32(0)

// Heap is a single allocator instance over a host-supplied byte buffer.
// It is not safe for concurrent use: spec.md's concurrency contract puts
// serialization on the host (§5). A Heap value carries no goroutine-shared
// state beyond the region it was constructed with, so distinct Heap values
// over distinct regions may run concurrently without interfering.
type Heap struct {
	region    []byte
	alignment uintptr
	copy      CopyFunc
	output    Sink
	debug     bool

	initialized bool
	first       uint32 // offset of the first header; valid once initialized
}

// New constructs a Heap over region. region becomes the heap's entire
// addressable space; the caller must not read or write it directly once
// the Heap is in use. The list is not created yet — it is lazily
// initialized on the first Allocate call, per spec.md §3 and §4.6.
func New(region []byte, opts ...Option) (*Heap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Alignment == 0 {
		cfg.Alignment = defaultAlignment
	}

	if !isPowerOfTwo(cfg.Alignment) {
		return nil, errs.New(errs.CategoryValidation, "BAD_ALIGNMENT",
			fmt.Sprintf("alignment %d is not a power of two", cfg.Alignment),
			errs.Ctx{"alignment": cfg.Alignment})
	}

	if cfg.Alignment < unsafe.Alignof(blockHeader{}) {
		return nil, errs.New(errs.CategoryValidation, "BAD_ALIGNMENT",
			fmt.Sprintf("alignment %d is smaller than header alignment %d", cfg.Alignment, unsafe.Alignof(blockHeader{})),
			errs.Ctx{"alignment": cfg.Alignment})
	}

	// payload(off) = off+headerSize; for that to stay a multiple of
	// Alignment whenever off is, Alignment must divide headerSize.
	if headerSize%cfg.Alignment != 0 {
		return nil, errs.New(errs.CategoryValidation, "BAD_ALIGNMENT",
			fmt.Sprintf("alignment %d does not divide header size %d", cfg.Alignment, headerSize),
			errs.Ctx{"alignment": cfg.Alignment, "header_size": headerSize})
	}

	if uintptr(len(region)) < 2*headerSize {
		return nil, errs.New(errs.CategoryValidation, "REGION_TOO_SMALL",
			fmt.Sprintf("region of %d bytes cannot host two headers (%d bytes each)", len(region), headerSize),
			errs.Ctx{"capacity": len(region), "header_size": headerSize})
	}

	if uintptr(unsafe.Pointer(&region[0]))%cfg.Alignment != 0 {
		return nil, errs.New(errs.CategoryValidation, "REGION_MISALIGNED",
			"region base address is not aligned to the configured alignment",
			errs.Ctx{"alignment": cfg.Alignment})
	}

	return &Heap{
		region:    region,
		alignment: cfg.Alignment,
		copy:      cfg.Copy,
		output:    cfg.Output,
		debug:     cfg.EnableDebug,
	}, nil
}

// capacity returns the total number of bytes the heap manages, headers
// included — spec.md's capacity.
func (h *Heap) capacity() uintptr { return uintptr(len(h.region)) }

// alignUp rounds n up to the nearest multiple of the heap's alignment.
func (h *Heap) alignUp(n uintptr) uintptr {
	a := h.alignment
	return (n + a - 1) &^ (a - 1)
}

// headerAt reinterprets the region bytes at off as a blockHeader in place.
func (h *Heap) headerAt(off uint32) *blockHeader {
	return (*blockHeader)(unsafe.Pointer(&h.region[off]))
}

// offsetOf returns the byte offset of hdr within the region.
func (h *Heap) offsetOf(hdr *blockHeader) uint32 {
	base := uintptr(unsafe.Pointer(&h.region[0]))
	return uint32(uintptr(unsafe.Pointer(hdr)) - base)
}

// payload returns the payload address for the block at header offset off.
func (h *Heap) payload(off uint32) unsafe.Pointer {
	return unsafe.Pointer(&h.region[uintptr(off)+headerSize])
}

// offsetFromPayload recovers a header offset from a payload address
// previously returned by Allocate/Reallocate. ok is false when p does not
// point headerSize bytes past some byte of the region — a best-effort
// detector; spec.md §7 leaves passing a foreign address undefined beyond
// this.
func (h *Heap) offsetFromPayload(p unsafe.Pointer) (off uint32, ok bool) {
	base := uintptr(unsafe.Pointer(&h.region[0]))
	addr := uintptr(p)

	if addr < base+headerSize {
		return 0, false
	}

	rel := addr - base - headerSize
	if rel >= uintptr(len(h.region)) {
		return 0, false
	}

	return uint32(rel), true
}

func (h *Heap) footprint(hdr *blockHeader) uintptr { return uintptr(hdr.size) }

func (h *Heap) isFree(hdr *blockHeader) bool { return hdr.free != 0 }

func (h *Heap) setFree(hdr *blockHeader, free bool) {
	if free {
		hdr.free = 1
	} else {
		hdr.free = 0
	}
}

// ensureInitialized performs the lazy first-touch initialization from
// spec.md §3/§4.6: the entire region becomes one free block headed at
// offset 0.
func (h *Heap) ensureInitialized() {
	if h.initialized {
		return
	}

	root := h.headerAt(0)
	root.next = nullOffset
	root.size = uint32(h.capacity())
	h.setFree(root, true)

	h.first = 0
	h.initialized = true
}
