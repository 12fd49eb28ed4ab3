package main

import (
	"flag"
	"os"

	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// runEnrich executes the enrich command: merge the month's vendor risk
// reports into the normalized snapshots.
func runEnrich() {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	monthFlag := fs.String("month", "", "Month in YYYY-MM format")
	edr := fs.String("edr", "", "EDR report path (discovered by filename when omitted)")
	backup := fs.String("backup", "", "Backup report path (discovered by filename when omitted)")
	phishing := fs.String("phishing", "", "Phishing report path (discovered by filename when omitted)")
	darkWeb := fs.String("dark-web", "", "Dark web report path (discovered by filename when omitted)")
	common := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	cfg := common.apply()
	month := parseMonth(*monthFlag, "cybertl enrich -month 2026-08")

	ui.PrintSection("Report Enrichment")
	ui.PrintConfigLine("month", month.String())
	stageEnrich(cfg, month, reportPaths{
		edr:      *edr,
		backup:   *backup,
		phishing: *phishing,
		darkWeb:  *darkWeb,
	})
}
