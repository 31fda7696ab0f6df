package ctl

import (
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	white  = "\033[37m"
)

// colorEnabled reports whether stdout is a terminal. When output is piped
// or redirected, ANSI escape codes are suppressed.
func colorEnabled() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// visibilityColor returns the ANSI color appropriate for a visibility flag.
func visibilityColor(visible bool) string {
	if !colorEnabled() {
		return ""
	}
	if visible {
		return green
	}
	return yellow
}

// colorize wraps text with an ANSI color sequence. Returns the text
// unchanged when color output is disabled.
func colorize(color, text string) string {
	if !colorEnabled() {
		return text
	}
	return color + text + reset
}

// header returns a bold section header, or plain text when color is off.
func header(title string) string {
	if colorEnabled() {
		return bold + title + reset
	}
	return title
}

// padRight pads s with spaces to reach the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration renders a time.Duration as a compact human string,
// delegating to humanize for anything beyond whole seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	return humanize.RelTime(time.Now().Add(-d), time.Now(), "", "")
}

// formatRate renders a megabit-per-second rate as a human byte-rate
// string, since operators read link budgets more naturally that way.
func formatRate(mbps float64) string {
	bytesPerSec := mbps * 1e6 / 8
	return humanize.Bytes(uint64(bytesPerSec)) + "/s"
}

// progressBar builds a simple ASCII bar of the given width. The filled
// portion is colored green when color output is enabled.
func progressBar(pct, width int) string {
	filled := (pct * width) / 100
	if filled > width {
		filled = width
	}
	empty := width - filled
	if colorEnabled() {
		return green + strings.Repeat("=", filled) + reset + strings.Repeat(" ", empty)
	}
	return strings.Repeat("=", filled) + strings.Repeat(" ", empty)
}

func boolLabel(b bool, onText, offText string) string {
	if b {
		return colorize(green, onText)
	}
	return colorize(yellow, offText)
}
