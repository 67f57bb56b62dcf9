//go:build unix

package region

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/lucidm/YAMAL/internal/errs"
)

// NewMapped backs a Region with an anonymous, demand-paged mmap(2)
// mapping instead of a Go-managed []byte, grounded in the teacher's use
// of golang.org/x/sys/unix for zero-copy I/O
// (internal/runtime/asyncio/zerocopy_unix_splice.go). Unlike a make([]byte,
// size) buffer, pages are only committed by the kernel as the allocator
// actually touches them — useful for exercising large heaps in the stress
// harness without upfront physical memory cost.
func NewMapped(size int) (*Region, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}

	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errs.New(errs.CategorySystem, "MMAP_FAILED",
			fmt.Sprintf("mmap of %d bytes failed: %v", size, err),
			errs.Ctx{"size": size})
	}

	return &Region{
		buf: buf,
		release: func() error {
			return unix.Munmap(buf)
		},
	}, nil
}
