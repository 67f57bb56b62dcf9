// Package region provisions the backing byte buffer spec.md deliberately
// keeps out of the allocator's scope ("provision of the backing buffer and
// its size is a host responsibility", spec.md §1). It is a host-side
// concern, never imported by internal/allocator itself.
package region

import "github.com/lucidm/YAMAL/internal/errs"

// Region owns a fixed-size byte buffer suitable for handing to
// allocator.New. Close releases any OS resources backing it.
type Region struct {
	buf     []byte
	release func() error
}

// Bytes returns the backing buffer. The caller must not resize it; the
// allocator treats its length as immutable capacity.
func (r *Region) Bytes() []byte { return r.buf }

// Close releases the region. It is a no-op for heap-backed regions.
func (r *Region) Close() error {
	if r.release == nil {
		return nil
	}

	return r.release()
}

// NewHeapBacked backs a Region with a plain Go-managed byte slice,
// regardless of platform. Use this when the mmap-backed variant's
// demand-paging behavior isn't wanted — e.g. small, short-lived example
// programs like cmd/yamal-simple.
func NewHeapBacked(size int) (*Region, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}

	return &Region{buf: make([]byte, size)}, nil
}

func validateSize(size int) error {
	if size <= 0 {
		return errs.New(errs.CategoryValidation, "BAD_REGION_SIZE",
			"region size must be positive", errs.Ctx{"size": size})
	}

	return nil
}
