// Command yamal-simple is a direct port of the reference allocator's
// examples/simple.c walkthrough: a fixed sequence of allocate/free/
// realloc cases against a small heap, printing a block report after each
// one so the effect of every call is visible.
package main

import (
	"flag"
	"fmt"
	"unsafe"

	"github.com/lucidm/YAMAL/internal/allocator"
	"github.com/lucidm/YAMAL/internal/cliutil"
	"github.com/lucidm/YAMAL/internal/region"
)

const heapSize = 16 * 1024

func main() {
	jsonVersion := flag.Bool("json", false, "emit --version output as JSON")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		cliutil.PrintVersion("yamal-simple", *jsonVersion)
		return
	}

	if err := run(); err != nil {
		cliutil.ExitWithError("%v", err)
	}
}

func run() error {
	r, err := region.NewHeapBacked(heapSize)
	if err != nil {
		return err
	}
	defer r.Close()

	h, err := allocator.New(r.Bytes())
	if err != nil {
		return err
	}

	section := func(title string) {
		fmt.Println("---------------------------------------------------")
		fmt.Println(title)
	}

	section("Case 0 - lazily initialize the block list")
	h.Allocate(0)
	h.Report()

	section("Case 1 - allocate three blocks 'A', 'B', 'C' in that order")
	a := h.Allocate(100)
	b := h.Allocate(150)
	c := h.Allocate(100)
	writeByte(a, 'A')
	writeByte(b, 'B')
	writeByte(c, 'C')
	h.Report()

	section("Case 2 - free block 'B'")
	h.Free(b)
	h.Report()

	section("Case 3 - realloc block 'A' to fit in the first two")
	a = h.Reallocate(a, 160)
	h.Report()

	section("Case 4 - realloc block 'A', forcing use of the last free block")
	a = h.Reallocate(a, 350)
	h.Report()

	section("Case 5 - free block 'C' and block 'A', then allocate 'A' again")
	h.Free(c)
	h.Free(a)
	a = h.Allocate(10)
	writeByte(a, 'A')
	h.Report()

	return nil
}

func writeByte(p unsafe.Pointer, b byte) {
	if p == nil {
		return
	}
	*(*byte)(p) = b
}
