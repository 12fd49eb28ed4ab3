package main

import (
	"flag"
	"os"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// runDiff executes the diff command: compare a month's normalized
// snapshots against the previous month's and write the change log.
func runDiff() {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	monthFlag := fs.String("month", "", "Month in YYYY-MM format (compared against its predecessor)")
	common := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	cfg := common.apply()
	month := parseMonth(*monthFlag, "cybertl diff -month 2026-08")

	ui.PrintSection("Month-over-Month Diff")
	ui.PrintConfigLine("from", month.Prev().String())
	ui.PrintConfigLine("to", month.String())
	stageDiff(cfg, month, "")
}
