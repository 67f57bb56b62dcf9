// Package cliutil holds the small set of command-line conveniences shared
// by cmd/yamal-simple, cmd/yamal-heavy and cmd/yamal-stress: version
// printing, a leveled logger, and usage formatting. Adapted from the
// teacher's internal/cli/common.go. The binaries call the version and
// logger helpers; none of them calls PrintUsage.
package cliutil

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/lucidm/YAMAL/internal/version"
)

// ToolVersion is the build version of the yamal-* command set, distinct
// from version.ReportFormat which versions the Report() wire format
// rather than the tools themselves.
const ToolVersion = "0.1.0"

// VersionInfo is the structured payload --version prints.
type VersionInfo struct {
	Tool         string `json:"tool"`
	Version      string `json:"version"`
	ReportFormat string `json:"report_format"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	Arch         string `json:"arch"`
}

// GetVersionInfo returns structured version information for toolName.
func GetVersionInfo(toolName string) *VersionInfo {
	return &VersionInfo{
		Tool:         toolName,
		Version:      ToolVersion,
		ReportFormat: version.String(),
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS,
		Arch:         runtime.GOARCH,
	}
}

// PrintVersion prints version information in a consistent format across
// all yamal-* binaries.
func PrintVersion(toolName string, jsonOutput bool) {
	info := GetVersionInfo(toolName)

	if jsonOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to marshal version info to JSON: %v\n", err)
		} else {
			fmt.Println(string(data))
			return
		}
	}

	fmt.Printf("%s v%s\n", info.Tool, info.Version)
	fmt.Printf("Report Format: %s\n", info.ReportFormat)
	fmt.Printf("Go Version: %s\n", info.GoVersion)
	fmt.Printf("Platform: %s/%s\n", info.Platform, info.Arch)
}

// ExitWithError prints an error message and exits with code 1.
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// Logger provides leveled logging for CLI tools.
type Logger struct {
	Verbose bool
}

// NewLogger creates a Logger.
func NewLogger(verbose bool) *Logger {
	return &Logger{Verbose: verbose}
}

// Info logs an info message when Verbose is set.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose {
		fmt.Printf("[INFO] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

// Error logs an error message unconditionally.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Printf("[ERROR] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// PrintUsage prints a standardized usage banner for a yamal-* binary.
func PrintUsage(tool, summary string, flags []FlagInfo) {
	fmt.Printf("%s - %s\n\n", tool, summary)
	fmt.Printf("USAGE:\n    %s [OPTIONS]\n\n", tool)

	if len(flags) > 0 {
		fmt.Printf("OPTIONS:\n")
		for _, flag := range flags {
			fmt.Printf("    --%-14s %s\n", flag.Name, flag.Usage)
			if flag.Default != "" {
				fmt.Printf("    %-16s Default: %s\n", "", flag.Default)
			}
		}
		fmt.Printf("\n")
	}

	fmt.Printf("    --help           Show this message\n")
	fmt.Printf("    --version        Show version information\n")
}

// FlagInfo documents a single CLI flag for PrintUsage.
type FlagInfo struct {
	Name    string
	Usage   string
	Default string
}
