// Command yamal-stress drives internal/stress's harness against an
// mmap-backed region for a JSON scenario file, live-reloading the
// scenario on every write so a long-running session can have its
// allocation mix tuned without a restart.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/lucidm/YAMAL/internal/allocator"
	"github.com/lucidm/YAMAL/internal/cliutil"
	"github.com/lucidm/YAMAL/internal/region"
	"github.com/lucidm/YAMAL/internal/stress"
	"github.com/lucidm/YAMAL/internal/version"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario JSON file (defaults baked in if empty)")
	watch := flag.Bool("watch", false, "reload the scenario file on every write")
	jsonVersion := flag.Bool("json", false, "emit --version output as JSON")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		cliutil.PrintVersion("yamal-stress", *jsonVersion)
		return
	}

	if err := run(*scenarioPath, *watch); err != nil {
		cliutil.ExitWithError("%v", err)
	}
}

func run(scenarioPath string, watch bool) error {
	cfg := stress.DefaultScenario()
	if scenarioPath != "" {
		loaded, err := stress.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if err := checkReportCompat(cfg); err != nil {
		return err
	}

	var watcher *stress.Watcher
	if watch && scenarioPath != "" {
		w, err := stress.WatchScenario(scenarioPath)
		if err != nil {
			return fmt.Errorf("failed to watch scenario file: %w", err)
		}
		defer w.Close()
		watcher = w
	}

	log := cliutil.NewLogger(true)

	for {
		if err := runScenario(cfg, log); err != nil {
			return err
		}

		if watcher == nil {
			return nil
		}

		select {
		case newCfg := <-watcher.Changes():
			if err := checkReportCompat(newCfg); err != nil {
				log.Error("rejecting reloaded scenario: %v", err)
				continue
			}
			log.Info("scenario reloaded from %s", scenarioPath)
			cfg = newCfg
		case err := <-watcher.Errors():
			log.Error("scenario watch error: %v", err)
		}
	}
}

func checkReportCompat(cfg stress.ScenarioConfig) error {
	if cfg.MinReportFormat == "" {
		return nil
	}

	ok, err := version.CompatibleWith(">= " + cfg.MinReportFormat)
	if err != nil {
		return fmt.Errorf("invalid min_report_format constraint: %w", err)
	}
	if !ok {
		return fmt.Errorf("report format %s does not satisfy minimum %s", version.String(), cfg.MinReportFormat)
	}

	return nil
}

func runScenario(cfg stress.ScenarioConfig, log *cliutil.Logger) error {
	r, err := region.NewMapped(cfg.HeapSizeBytes)
	if err != nil {
		return err
	}
	defer r.Close()

	h, err := allocator.New(r.Bytes())
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	table := stress.NewTable(h, cfg.Slots)

	h.Allocate(0)

	for round := 0; round < cfg.Rounds; round++ {
		order := stress.Identity(cfg.Slots)
		stress.Shuffle(rng, order)

		table.AllocateAll(order, func(int) uintptr {
			return uintptr(stress.RandRange(rng, cfg.MinAllocBytes, cfg.MaxAllocBytes))
		})
		table.ReallocateAll(order, func(int) uintptr {
			return uintptr(stress.RandRange(rng, cfg.MinAllocBytes, cfg.MaxAllocBytes))
		})

		if err := table.CheckConsistency(); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		if err := table.VerifyPatterns(); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}

		log.Info("round %d complete", round)
	}

	table.FreeAll()
	stats := h.Report()
	fmt.Printf("final: blocks=%d used=%d free=%d report_format=%s\n",
		stats.Blocks, stats.UsedBlocks, stats.FreeBlocks, version.String())

	return nil
}
