package main

import (
	"flag"
	"os"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// runNormalizeUsers executes the normalize-users command: parse one
// month's user list export into the canonical user snapshot.
func runNormalizeUsers() {
	fs := flag.NewFlagSet("normalize-users", flag.ExitOnError)
	input := fs.String("input", "", "User list export (CSV/TSV); discovered by filename when omitted")
	monthFlag := fs.String("month", "", "Month in YYYY-MM format")
	common := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	cfg := common.apply()
	month := parseMonth(*monthFlag, "cybertl normalize-users -month 2026-08 [-input data/raw/2026-08/user_list.csv]")

	ui.PrintSection("Normalize Users")
	ui.PrintConfigLine("month", month.String())
	stageNormalizeUsers(cfg, month, *input)
}

// runNormalizeAssets executes the normalize-assets command: parse one
// month's asset list export into the canonical asset snapshot.
func runNormalizeAssets() {
	fs := flag.NewFlagSet("normalize-assets", flag.ExitOnError)
	input := fs.String("input", "", "Asset list export (CSV/TSV); discovered by filename when omitted")
	monthFlag := fs.String("month", "", "Month in YYYY-MM format")
	common := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	cfg := common.apply()
	month := parseMonth(*monthFlag, "cybertl normalize-assets -month 2026-08 [-input data/raw/2026-08/asset_list.csv]")

	ui.PrintSection("Normalize Assets")
	ui.PrintConfigLine("month", month.String())
	stageNormalizeAssets(cfg, month, *input)
}
