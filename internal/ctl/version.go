package ctl

import (
	"fmt"
	"strings"
)

// Build-time variables set via -ldflags.
var (
	Version   = "dev"
	GoVersion = "unknown"
)

// VersionInfo prints the CLI's own build information. satsim daemons
// currently expose no /api/version endpoint — their status payload
// already carries everything a monitoring client needs to identify
// which process it is talking to.
func VersionInfo(jsonOutput bool) error {
	if jsonOutput {
		return printJSON(map[string]any{"version": Version, "go_version": GoVersion})
	}

	fmt.Println()
	fmt.Println(header("  SATCTL VERSION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 32)))
	fmt.Printf("  %-10s %s (%s)\n", colorize(dim, "satctl:"), Version, GoVersion)
	fmt.Println()
	return nil
}
