package drift

import (
	"fmt"
	"strings"
)

// FormatCLI formats drift report for terminal output.
func FormatCLI(report DriftReport) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Effective values changed since %s:\n", report.PreviousPath)

	for _, change := range report.Changes {
		switch change.Type {
		case DriftAdded:
			fmt.Fprintf(&sb, "  + %s: (new) → %s\n", change.Key, change.CurrentValue)
		case DriftRemoved:
			fmt.Fprintf(&sb, "  - %s: %s → (removed)\n", change.Key, change.PreviousValue)
		case DriftChanged:
			fmt.Fprintf(&sb, "  ~ %s: %s → %s\n", change.Key, change.PreviousValue, change.CurrentValue)
		}
	}

	return sb.String()
}
