package main

import (
	"fmt"
	"os"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// exitWithError reports a fatal pipeline failure and stops the run
// with exit code 1. Every command funnels its failures through here so
// the error line format stays uniform.
func exitWithError(format string, args ...any) {
	ui.PrintError(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// exitWithUsage is exitWithError for bad invocations: the message plus
// the command's usage line.
func exitWithUsage(msg, usage string) {
	ui.PrintError(msg)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:", usage)
	os.Exit(1)
}
