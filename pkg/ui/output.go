// Package ui holds the CLI's terminal output helpers: the shared color
// palette, status line printers and terminal capability detection.
// Status output goes to stderr so JSON artifacts on stdout stay
// machine-readable.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Version information, overridable at build time via ldflags:
// go build -ldflags "-X github.com/cybertimeline/cybertimeline/pkg/ui.Version=1.0.0"
var (
	Version   = "0.4.0"
	BuildDate = "2026-08-31"
	Commit    = "dev"
)

// Global UI state
var (
	silentMode  bool
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetSilent suppresses all status output.
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent reports whether silent mode is enabled.
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output.
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor reports whether color is disabled.
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

const miniBanner = `
________________________________________________

 cybertl v%s
________________________________________________`

// PrintMiniBanner prints the compact banner.
func PrintMiniBanner() {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n\n", BannerStyle.Render(fmt.Sprintf(miniBanner, Version)))
}

// PrintDivider prints a divider line.
func PrintDivider() {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, DividerStyle.Render(strings.Repeat("-", 60)))
}

// PrintSection prints a stage header.
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, SectionStyle.Render("> "+title))
	PrintDivider()
}

// PrintConfigLine prints a single key/value line.
func PrintConfigLine(key, value string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		ConfigLabelStyle.Render(key+":"),
		ConfigValueStyle.Render(value),
	)
}

// PrintStat prints a labeled count, for per-stage summaries.
func PrintStat(label string, value int) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		StatLabelStyle.Render(label+":"),
		StatValueStyle.Render(fmt.Sprintf("%d", value)),
	)
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, PassStyle.Render("  [+] "+SanitizeString(message)))
}

// PrintError prints an error message. Not gated on silent mode so
// failures stay visible.
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, FailStyle.Render("  [X] "+SanitizeString(message)))
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, WarnStyle.Render("  [!] "+SanitizeString(message)))
}

// PrintInfo prints an info message.
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", ConfigLabelStyle.Render("*"), SanitizeString(message))
}

// PrintHelp prints contextual help.
func PrintHelp(text string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, HelpStyle.Render("  [i] "+text))
}
