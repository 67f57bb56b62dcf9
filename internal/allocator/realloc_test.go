package allocator

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func writePattern(h *Heap, p unsafe.Pointer, n uintptr, b byte) {
	buf := (*[1 << 20]byte)(p)[:n:n]
	for i := range buf {
		buf[i] = b
	}
}

func checkPattern(t *testing.T, p unsafe.Pointer, n uintptr, b byte) {
	t.Helper()

	buf := (*[1 << 20]byte)(p)[:n:n]
	for i, v := range buf {
		require.Equalf(t, b, v, "byte %d corrupted", i)
	}
}

// TestReallocSameSizeReturnsSamePointer is property 7.
func TestReallocSameSizeReturnsSamePointer(t *testing.T) {
	h := newTestHeap(t, 16384)

	p := h.Allocate(100)
	require.NotNil(t, p)

	p2 := h.Reallocate(p, 100)
	require.Equal(t, p, p2)
}

// TestReallocShrinkInPlace is scenario S3: shrinking in place keeps the
// same address and leaves a new free block behind.
func TestReallocShrinkInPlace(t *testing.T) {
	h := newTestHeap(t, 16384)

	a := h.Allocate(100)
	b := h.Allocate(150)
	c := h.Allocate(100)
	require.NotNil(t, b)
	require.NotNil(t, c)

	h.Free(b)

	shrunk := h.Reallocate(a, 40)
	require.Equal(t, a, shrunk)

	require.NoError(t, h.Verify())
}

// TestReallocGrowByAbsorption is scenario S4: freeing the right neighbor
// then growing into it keeps the same address.
func TestReallocGrowByAbsorption(t *testing.T) {
	h := newTestHeap(t, 16384)

	a := h.Allocate(100)
	b := h.Allocate(150)
	c := h.Allocate(100)
	require.NotNil(t, c)

	h.Free(b)

	grown := h.Reallocate(a, 160)
	require.Equal(t, a, grown)

	footprint, free, ok := h.BlockOf(grown)
	require.True(t, ok)
	require.False(t, free)
	require.GreaterOrEqual(t, footprint, uintptr(160)+headerSize)

	require.NoError(t, h.Verify())
}

// TestReallocRelocateFallback is scenario S5: a grow request too big for
// the adjacent hole relocates, copies the old payload, and frees the old
// block.
func TestReallocRelocateFallback(t *testing.T) {
	h := newTestHeap(t, 16384)

	a := h.Allocate(100)
	require.NotNil(t, a)
	writePattern(h, a, 100, 'A')

	b := h.Allocate(150)
	h.Allocate(100)
	h.Free(b)

	moved := h.Reallocate(a, 350)
	require.NotNil(t, moved)
	require.NotEqual(t, a, moved, "350 bytes cannot fit in the 150-byte hole")

	checkPattern(t, moved, 100, 'A')

	_, free, ok := h.BlockOf(a)
	require.True(t, ok)
	require.True(t, free, "old block must be freed after relocation")
}

// TestReallocGrowFailureLeavesBlockUntouched is property 8: when
// Reallocate(p, n) cannot satisfy the grow, it returns nil and p remains
// a valid allocation of its original contents.
func TestReallocGrowFailureLeavesBlockUntouched(t *testing.T) {
	h := newTestHeap(t, 512)

	a := h.Allocate(64)
	require.NotNil(t, a)
	writePattern(h, a, 64, 'Z')

	h.Allocate(64)
	h.Allocate(64)
	h.Allocate(64)
	h.Allocate(64)

	failed := h.Reallocate(a, 4096)
	require.Nil(t, failed)

	checkPattern(t, a, 64, 'Z')

	_, free, ok := h.BlockOf(a)
	require.True(t, ok)
	require.False(t, free)
}

// TestReallocPreservesPatternAcrossGrow is property 9: writing a pattern
// and growing through Reallocate preserves the original bytes.
func TestReallocPreservesPatternAcrossGrow(t *testing.T) {
	h := newTestHeap(t, 16384)

	p := h.Allocate(32)
	require.NotNil(t, p)
	writePattern(h, p, 32, 0x5A)

	grown := h.Reallocate(p, 256)
	require.NotNil(t, grown)

	checkPattern(t, grown, 32, 0x5A)
}

func TestReallocNilPointerAllocates(t *testing.T) {
	h := newTestHeap(t, 4096)

	p := h.Reallocate(nil, 64)
	require.NotNil(t, p)
}

func TestReallocZeroSizeFrees(t *testing.T) {
	h := newTestHeap(t, 4096)

	p := h.Allocate(64)
	require.NotNil(t, p)

	require.Nil(t, h.Reallocate(p, 0))

	_, free, ok := h.BlockOf(p)
	require.True(t, ok)
	require.True(t, free)
}

func TestReallocBothNilBehavesLikeAllocateZero(t *testing.T) {
	h := newTestHeap(t, 4096)

	p := h.Reallocate(nil, 0)
	require.Equal(t, h.payload(0), p)
}
