package main

import (
	"flag"
	"os"

	"github.com/google/uuid"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// runMonth executes the run command: the full pipeline for one month
// in stage order. Every artifact from the run carries the same run ID
// so a month's outputs can be traced to a single invocation.
func runMonth() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	monthFlag := fs.String("month", "", "Month in YYYY-MM format")
	skipEnrich := fs.Bool("skip-enrich", false, "Stop after normalize and diff")
	common := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	cfg := common.apply()
	month := parseMonth(*monthFlag, "cybertl run -month 2026-08")

	if _, err := os.Stat(cfg.RawDir(month)); err != nil {
		exitWithError("Raw data folder not found: %s", cfg.RawDir(month))
	}

	runID := uuid.NewString()

	ui.PrintMiniBanner()
	ui.PrintConfigLine("month", month.String())
	ui.PrintConfigLine("data dir", cfg.DataDir)
	ui.PrintConfigLine("run id", runID)

	ui.PrintSection("Normalize Users")
	stageNormalizeUsers(cfg, month, "")

	ui.PrintSection("Normalize Assets")
	stageNormalizeAssets(cfg, month, "")

	ui.PrintSection("Month-over-Month Diff")
	stageDiff(cfg, month, runID)

	if *skipEnrich {
		ui.PrintSuccess("Monthly run completed (enrichment skipped)")
		return
	}

	ui.PrintSection("Report Enrichment")
	stageEnrich(cfg, month, reportPaths{})

	ui.PrintSection("Insight Derivation")
	stageInsight(cfg, month, runID)

	ui.PrintSuccess("Monthly run completed")
}
