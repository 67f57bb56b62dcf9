// Package version tags the allocator's diagnostic report format with a
// semantic version, so long-lived consumers of Heap.Report's output can
// check compatibility before relying on its shape.
package version

import "github.com/Masterminds/semver/v3"

// ReportFormat is the semantic version of the line format
// internal/allocator.Heap.Report emits. Bump the minor component when a
// field is added to a block line, the major component when the format
// changes incompatibly.
var ReportFormat = semver.MustParse("1.0.0")

// CompatibleWith reports whether ReportFormat satisfies constraint, a
// Masterminds/semver constraint string such as ">= 1.0.0, < 2.0.0".
func CompatibleWith(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}

	return c.Check(ReportFormat), nil
}

// String returns the report format version as a string, for inclusion in
// diagnostic output.
func String() string {
	return ReportFormat.String()
}
