package stress

import (
	"encoding/json"
	"os"

	"github.com/lucidm/YAMAL/internal/errs"
)

// ScenarioConfig describes one stress run: how big a region to provision,
// how many slots to juggle, the size range to draw allocations from, and
// how many allocate/reallocate/free rounds to run. It is the Go-native,
// JSON-decoded replacement for heavy.c's compile-time MAXALLOCATIONS and
// hand-edited constants.
type ScenarioConfig struct {
	HeapSizeBytes   int    `json:"heap_size_bytes"`
	Slots           int    `json:"slots"`
	MinAllocBytes   int    `json:"min_alloc_bytes"`
	MaxAllocBytes   int    `json:"max_alloc_bytes"`
	Rounds          int    `json:"rounds"`
	Seed            int64  `json:"seed"`
	MinReportFormat string `json:"min_report_format,omitempty"`
}

// DefaultScenario returns the scenario used by callers that don't supply a
// scenario file: a 1 MiB region, 256 slots, sizes in [1, 4096), 50 rounds
// and seed 1.
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		HeapSizeBytes: 1 << 20,
		Slots:         256,
		MinAllocBytes: 1,
		MaxAllocBytes: 4096,
		Rounds:        50,
		Seed:          1,
	}
}

// LoadScenario reads and decodes a ScenarioConfig from path, applying
// DefaultScenario for any zero-valued field the file leaves unset.
func LoadScenario(path string) (ScenarioConfig, error) {
	cfg := DefaultScenario()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.New(errs.CategorySystem, "SCENARIO_READ_FAILED",
			"failed to read scenario file", errs.Ctx{"path": path, "error": err.Error()})
	}

	overlay := ScenarioConfig{}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return cfg, errs.New(errs.CategoryValidation, "SCENARIO_DECODE_FAILED",
			"failed to decode scenario JSON", errs.Ctx{"path": path, "error": err.Error()})
	}

	if overlay.HeapSizeBytes != 0 {
		cfg.HeapSizeBytes = overlay.HeapSizeBytes
	}
	if overlay.Slots != 0 {
		cfg.Slots = overlay.Slots
	}
	if overlay.MinAllocBytes != 0 {
		cfg.MinAllocBytes = overlay.MinAllocBytes
	}
	if overlay.MaxAllocBytes != 0 {
		cfg.MaxAllocBytes = overlay.MaxAllocBytes
	}
	if overlay.Rounds != 0 {
		cfg.Rounds = overlay.Rounds
	}
	if overlay.Seed != 0 {
		cfg.Seed = overlay.Seed
	}
	if overlay.MinReportFormat != "" {
		cfg.MinReportFormat = overlay.MinReportFormat
	}

	return cfg, nil
}
