package stress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidm/YAMAL/internal/allocator"
)

func newTestHeap(t *testing.T, size int) *allocator.Heap {
	t.Helper()

	h, err := allocator.New(make([]byte, size), allocator.WithOutput(func(string, ...interface{}) {}))
	require.NoError(t, err)

	return h
}

func TestTableAllocateConsistencyAndPatterns(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	table := NewTable(h, 32)
	rng := rand.New(rand.NewSource(1))

	sizer := func(slot int) uintptr { return uintptr(RandRange(rng, 8, 256)) }

	order := Identity(32)
	Shuffle(rng, order)

	failures := table.AllocateAll(order, sizer)
	require.Zero(t, failures)

	require.NoError(t, table.CheckConsistency())
	require.NoError(t, table.VerifyPatterns())
}

func TestTableReallocatePreservesPatterns(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	table := NewTable(h, 16)
	rng := rand.New(rand.NewSource(2))

	require.Zero(t, table.AllocateAll(nil, func(int) uintptr { return uintptr(RandRange(rng, 8, 128)) }))
	require.NoError(t, table.VerifyPatterns())

	require.Zero(t, table.ReallocateAll(nil, func(int) uintptr { return uintptr(RandRange(rng, 8, 512)) }))
	require.NoError(t, table.CheckConsistency())
	require.NoError(t, table.VerifyPatterns())
}

func TestTableFreeAllClearsRecords(t *testing.T) {
	h := newTestHeap(t, 1<<14)
	table := NewTable(h, 8)

	require.Zero(t, table.AllocateAll(nil, func(int) uintptr { return 32 }))
	table.FreeAll()

	for _, r := range table.Records() {
		require.False(t, r.Used)
	}
	require.NoError(t, h.Verify())
}

func TestAllocateAllVisitsGivenOrder(t *testing.T) {
	h := newTestHeap(t, 1<<14)
	table := NewTable(h, 4)

	var visited []int
	order := []int{3, 1, 2, 0}

	table.AllocateAll(order, func(slot int) uintptr {
		visited = append(visited, slot)
		return 16
	})

	require.Equal(t, order, visited, "AllocateAll must visit slots in the supplied order, not ascending index order")
}

func TestShuffleIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	order := Identity(20)

	Shuffle(rng, order)

	seen := make(map[int]bool, len(order))
	for _, v := range order {
		require.False(t, seen[v], "value %d seen twice", v)
		seen[v] = true
	}
	require.Len(t, seen, 20)
}

func TestRandRangeStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 1000; i++ {
		v := RandRange(rng, 10, 20)
		require.GreaterOrEqual(t, v, 10)
		require.Less(t, v, 20)
	}
}

func TestRandRangeDegenerateRangeReturnsMin(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	require.Equal(t, 7, RandRange(rng, 7, 7))
	require.Equal(t, 7, RandRange(rng, 7, 3))
}

func TestDefaultScenarioValues(t *testing.T) {
	cfg := DefaultScenario()
	require.Positive(t, cfg.HeapSizeBytes)
	require.Positive(t, cfg.Slots)
	require.Positive(t, cfg.Rounds)
}
