package drift

import (
	"fmt"
	"strings"
)

// FormatResult formats a comparison result for CLI output.
func FormatResult(result *Result) string {
	if result == nil {
		return "No verification result available."
	}

	if !result.HasDrift {
		return FormatNoDrift(result)
	}

	return FormatDrift(result)
}

// FormatNoDrift formats a successful (no drift) result.
func FormatNoDrift(result *Result) string {
	var b strings.Builder

	b.WriteString("Output check passed\n\n")
	fmt.Fprintf(&b, "  Files:        %d\n", len(result.Verified))
	fmt.Fprintf(&b, "  Output hash:  %s\n", truncateHash(result.ExpectedRoot))
	b.WriteString("\n  Generated DDL matches the lock file.\n")

	return b.String()
}

// FormatDrift formats a result with differences.
func FormatDrift(result *Result) string {
	var b strings.Builder

	b.WriteString("Output drift detected\n\n")
	fmt.Fprintf(&b, "  Expected hash: %s\n", truncateHash(result.ExpectedRoot))
	fmt.Fprintf(&b, "  Actual hash:   %s\n", truncateHash(result.ActualRoot))
	b.WriteString("\n")

	writeList(&b, "Missing files (in lock file but not on disk):", "-", result.Missing)
	writeList(&b, "Extra files (on disk but not in lock file):", "+", result.Extra)
	writeList(&b, "Modified files:", "~", result.Modified)

	b.WriteString("Fix:\n")
	b.WriteString("  Re-render and record the output:\n")
	b.WriteString("    sqltable render -o <dir> && sqltable lock\n")

	return b.String()
}

func writeList(b *strings.Builder, title, mark string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "    %s %s\n", mark, item)
	}
	b.WriteString("\n")
}

// FormatSummary formats a one-line summary of the result.
func FormatSummary(result *Result) string {
	if result == nil {
		return "No summary available."
	}
	if !result.HasDrift {
		return fmt.Sprintf("No drift detected. %d files in sync.", len(result.Verified))
	}

	var parts []string
	if n := len(result.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", n))
	}
	if n := len(result.Extra); n > 0 {
		parts = append(parts, fmt.Sprintf("%d extra", n))
	}
	if n := len(result.Modified); n > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "root hash mismatch")
	}

	return fmt.Sprintf("Drift detected: %s", strings.Join(parts, ", "))
}

// FormatQuickStatus formats a quick status line.
func FormatQuickStatus(result *Result) string {
	if !result.HasDrift {
		return fmt.Sprintf("OK  %s", truncateHash(result.ExpectedRoot))
	}
	return fmt.Sprintf("DRIFT  expected: %s  actual: %s",
		truncateHash(result.ExpectedRoot), truncateHash(result.ActualRoot))
}

// truncateHash returns the first 12 characters of a hash for display.
func truncateHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
