package allocator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, size int) *Heap {
	t.Helper()

	h, err := New(make([]byte, size), WithOutput(func(string, ...interface{}) {}))
	require.NoError(t, err)

	return h
}

func TestNewRejectsUndersizedRegion(t *testing.T) {
	_, err := New(make([]byte, headerSize))
	require.Error(t, err)
}

func TestNewRejectsNonPowerOfTwoAlignment(t *testing.T) {
	_, err := New(make([]byte, 1024), WithAlignment(6))
	require.Error(t, err)
}

func TestLazyInitOnFirstAllocate(t *testing.T) {
	h := newTestHeap(t, 16384)

	stats := h.Report()
	require.Equal(t, 0, stats.Blocks, "region not yet initialized")

	p := h.Allocate(0)
	require.NotNil(t, p)

	stats = h.Report()
	require.Equal(t, 1, stats.Blocks)
	require.Equal(t, 1, stats.FreeBlocks)
	require.EqualValues(t, 16384, stats.TotalFootprint)
}

func TestVerifyPassesOnFreshHeap(t *testing.T) {
	h := newTestHeap(t, 16384)
	h.Allocate(0)

	require.NoError(t, h.Verify())
}

func TestNewRejectsAlignmentThatDoesNotDivideHeaderSize(t *testing.T) {
	_, err := New(make([]byte, 1024), WithAlignment(32))
	require.Error(t, err)
}

func TestWithAlignmentEightKeepsPayloadsAligned(t *testing.T) {
	h, err := New(make([]byte, 16384), WithAlignment(8), WithOutput(func(string, ...interface{}) {}))
	require.NoError(t, err)

	sizes := []uintptr{1, 3, 7, 15, 33, 129, 257}
	for _, size := range sizes {
		p := h.Allocate(size)
		require.NotNil(t, p)
		require.Zero(t, uintptr(p)%8, "payload must be 8-byte aligned under WithAlignment(8)")

		footprint, free, ok := h.BlockOf(p)
		require.True(t, ok)
		require.False(t, free)
		require.GreaterOrEqual(t, footprint, size+headerSize)
	}

	require.NoError(t, h.Verify())
}
