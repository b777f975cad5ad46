// Package locator finds the line a summary block belongs on.
package locator

import (
	"strings"

	"document-tldr/internal/models"
)

// Result is the target line for a summary block.
type Result struct {
	Index int
	// Replace is true when the line at Index already holds a summary.
	Replace bool
	// Matched is false when no line qualified and Index fell back to 0.
	Matched bool
}

// Locate scans lines from the top and stops at the first line that is an
// existing summary, a heading that is not itself a summary, or blank.
// Without a match it falls back to inserting before line 0.
func Locate(lines []string) Result {
	for i, line := range lines {
		if IsSummaryLine(line) {
			return Result{Index: i, Replace: true, Matched: true}
		}
		if isPlainHeading(line) || line == "" {
			return Result{Index: i, Matched: true}
		}
	}
	return Result{}
}

// IsSummaryLine reports whether line starts with the summary marker.
func IsSummaryLine(line string) bool {
	return strings.HasPrefix(line, models.SummaryMarker)
}

func isPlainHeading(line string) bool {
	return strings.HasPrefix(line, models.HeadingPrefix) && !strings.Contains(line, models.SummaryWord)
}
