package allocator

import "unsafe"

// Global holds the process-wide convenience instance used by Alloc/Free/
// Realloc/Report below. Heap itself carries no global state — per spec.md
// §9's design note, the region is modeled as an explicit Heap value passed
// to every method, and this package-level variable is only a facade for
// callers that genuinely want one process-wide heap.
var Global *Heap

// Init constructs the package-wide Heap used by Alloc/Free/Realloc/Report.
func Init(region []byte, opts ...Option) error {
	h, err := New(region, opts...)
	if err != nil {
		return err
	}

	Global = h

	return nil
}

// Alloc allocates from the global heap. Panics if Init was never called —
// this is a programming error in the host, not an allocator failure mode,
// so it is not folded into the null-return OOM contract.
func Alloc(n uintptr) unsafe.Pointer {
	mustGlobal()
	return Global.Allocate(n)
}

// Free releases a payload address allocated from the global heap.
func Free(p unsafe.Pointer) {
	mustGlobal()
	Global.Free(p)
}

// Realloc reallocates a payload address allocated from the global heap.
func Realloc(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	mustGlobal()
	return Global.Reallocate(p, n)
}

// Report dumps the global heap's block list through its configured Sink.
func Report() Stats {
	mustGlobal()
	return Global.Report()
}

func mustGlobal() {
	if Global == nil {
		panic("allocator: Global heap not initialized, call allocator.Init first")
	}
}
