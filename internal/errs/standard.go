// Package errs provides standardized error messaging shared by the
// allocator, its region backends, and the stress tooling built on top of
// it. Allocate/Free/Reallocate themselves never return one of these —
// spec.md keeps their failure surface to null returns — this package is
// only for the handful of hard failures spec.md does carve out:
// construction-time misconfiguration and a detected corrupt heap.
package errs

import (
	"fmt"
	"runtime"
)

// Category groups errors by the kind of contract they violate.
type Category string

const (
	CategoryMemory     Category = "MEMORY"
	CategoryBounds     Category = "BOUNDS"
	CategoryValidation Category = "VALIDATION"
	CategoryCorruption Category = "CORRUPTION"
	CategorySystem     Category = "SYSTEM"
)

// Ctx carries structured diagnostic context alongside an error.
type Ctx map[string]interface{}

// StandardError is the error type every constructor in this package
// returns.
type StandardError struct {
	Category Category
	Code     string
	Message  string
	Context  Ctx
	Caller   string
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// New creates a StandardError, capturing the immediate caller for
// diagnostics.
func New(category Category, code, message string, context Ctx) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"

	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// CorruptHeap reports an invariant violation found by Heap.Verify — spec.md
// §4.9/§7's CorruptHeap condition. The contract is to report and halt: the
// caller is expected to panic with this error rather than try to recover.
func CorruptHeap(reason string, context Ctx) *StandardError {
	return New(CategoryCorruption, "CORRUPT_HEAP", reason, context)
}
