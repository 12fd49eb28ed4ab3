package main

import (
	"flag"
	"os"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// runInsight executes the insight command: derive the month's insight
// bundle from its enriched snapshots and diff artifact.
func runInsight() {
	fs := flag.NewFlagSet("insight", flag.ExitOnError)
	monthFlag := fs.String("month", "", "Month in YYYY-MM format")
	common := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	cfg := common.apply()
	month := parseMonth(*monthFlag, "cybertl insight -month 2026-08")

	ui.PrintSection("Insight Derivation")
	ui.PrintConfigLine("month", month.String())
	stageInsight(cfg, month, "")
}
