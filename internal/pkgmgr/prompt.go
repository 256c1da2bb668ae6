package pkgmgr

import (
	"fmt"
	"strings"
)

// SelectionPrompt renders the "how to choose a manager" notice
func SelectionPrompt(available []string, current string) string {
	var b strings.Builder
	b.WriteString("[PackageManager] Available package managers:\n")
	for _, name := range available {
		if name == current {
			fmt.Fprintf(&b, "  - %s (current)\n", name)
		} else {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	b.WriteString("\nTo set your preferred package manager:\n")
	b.WriteString("  - Run: primer pm set <name> (or /setup-pm) for this project\n")
	b.WriteString("  - Run: primer pm set <name> --global for every project\n")
	b.WriteString("  - Or set the CLAUDE_PACKAGE_MANAGER environment variable\n")
	return b.String()
}
