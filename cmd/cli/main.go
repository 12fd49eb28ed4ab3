// Command cybertl runs the monthly security reporting pipeline:
// normalize raw tenant exports into canonical snapshots, diff
// consecutive months, merge vendor risk reports, and derive the
// insight bundle the reporting layer consumes.
package main

import (
	"fmt"
	"os"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

func printUsage() {
	ui.PrintMiniBanner()

	fmt.Fprintln(os.Stderr, ui.SectionStyle.Render("MONTHLY PIPELINE"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s\n", ui.HelpStyle.Render("One command per stage, or 'run' for the whole month:"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "    %s  Parse the user list export into a canonical snapshot\n", ui.ConfigValueStyle.Render("normalize-users "))
	fmt.Fprintf(os.Stderr, "    %s  Parse the asset list export into a canonical snapshot\n", ui.ConfigValueStyle.Render("normalize-assets"))
	fmt.Fprintf(os.Stderr, "    %s  Diff two consecutive monthly snapshots\n", ui.ConfigValueStyle.Render("diff            "))
	fmt.Fprintf(os.Stderr, "    %s  Merge EDR, backup, phishing and dark-web reports\n", ui.ConfigValueStyle.Render("enrich          "))
	fmt.Fprintf(os.Stderr, "    %s  Derive the insight bundle from enriched snapshots\n", ui.ConfigValueStyle.Render("insight         "))
	fmt.Fprintf(os.Stderr, "    %s  Run every stage for one month\n", ui.ConfigValueStyle.Render("run             "))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s\n", ui.HelpStyle.Render("Quick example:"))
	fmt.Fprintf(os.Stderr, "    %s\n", ui.ConfigValueStyle.Render("cybertl run -month 2026-08"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s\n", ui.HelpStyle.Render("Every command accepts -config, -silent and -no-color."))
	fmt.Fprintln(os.Stderr)
}

func runVersion() {
	fmt.Printf("cybertl %s (built %s, commit %s)\n", ui.Version, ui.BuildDate, ui.Commit)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "normalize-users", "users":
		runNormalizeUsers()
	case "normalize-assets", "assets":
		runNormalizeAssets()
	case "diff":
		runDiff()
	case "enrich":
		runEnrich()
	case "insight", "insights":
		runInsight()
	case "run", "month":
		runMonth()
	case "version", "-version", "--version":
		runVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		ui.PrintError(fmt.Sprintf("Unknown command %q", os.Args[1]))
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}
