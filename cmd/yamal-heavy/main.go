// Command yamal-heavy is a port of the reference allocator's
// examples/heavy.c stress walkthrough: repeated rounds of shuffled
// allocate/reallocate/free over a fixed slot table, checking heap
// consistency after every round instead of heavy.c's interactive
// getchar() pauses.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/lucidm/YAMAL/internal/allocator"
	"github.com/lucidm/YAMAL/internal/cliutil"
	"github.com/lucidm/YAMAL/internal/region"
	"github.com/lucidm/YAMAL/internal/stress"
)

func main() {
	heapSize := flag.Int("heap-size", 16*1024, "backing region size in bytes")
	slots := flag.Int("slots", 25, "number of concurrent allocation slots")
	rounds := flag.Int("rounds", 8, "number of allocate/realloc/free rounds to run")
	seed := flag.Int64("seed", 1, "PRNG seed for shuffle and size selection")
	verbose := flag.Bool("verbose", false, "print a block report after every round")
	jsonVersion := flag.Bool("json", false, "emit --version output as JSON")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		cliutil.PrintVersion("yamal-heavy", *jsonVersion)
		return
	}

	if err := run(*heapSize, *slots, *rounds, *seed, *verbose); err != nil {
		cliutil.ExitWithError("%v", err)
	}
}

func run(heapSize, slots, rounds int, seed int64, verbose bool) error {
	r, err := region.NewHeapBacked(heapSize)
	if err != nil {
		return err
	}
	defer r.Close()

	h, err := allocator.New(r.Bytes())
	if err != nil {
		return err
	}

	log := cliutil.NewLogger(verbose)
	rng := rand.New(rand.NewSource(seed))
	table := stress.NewTable(h, slots)
	maxSize := heapSize / slots

	// Shuffled once up front, like heavy.c's single pre-loop shuffle() call;
	// every round visits slots in this same randomized order.
	order := stress.Identity(slots)
	stress.Shuffle(rng, order)

	h.Allocate(0)
	h.Report()

	for round := 0; round < rounds; round++ {
		fmt.Printf("round %d: allocating %d blocks with various sizes\n", round, slots)
		failures := table.AllocateAll(order, func(int) uintptr {
			return uintptr(stress.RandRange(rng, 10, maxSize))
		})
		if failures > 0 {
			log.Error("round %d: %d allocations failed", round, failures)
		}
		if verbose {
			h.Report()
		}

		fmt.Printf("round %d: reallocating allocated blocks with various sizes\n", round)
		failures = table.ReallocateAll(order, func(int) uintptr {
			return uintptr(stress.RandRange(rng, 10, maxSize))
		})
		if failures > 0 {
			log.Error("round %d: %d reallocations failed", round, failures)
		}

		if err := table.CheckConsistency(); err != nil {
			return fmt.Errorf("round %d: consistency check failed: %w", round, err)
		}
		if err := table.VerifyPatterns(); err != nil {
			return fmt.Errorf("round %d: pattern check failed: %w", round, err)
		}
		if verbose {
			h.Report()
		}

		fmt.Printf("round %d: freeing all allocated blocks\n", round)
		table.FreeAll()
		h.Report()
	}

	return nil
}
