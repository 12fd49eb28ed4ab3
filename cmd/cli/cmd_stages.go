package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cybertimeline/cybertimeline/pkg/config"
	"github.com/cybertimeline/cybertimeline/pkg/diff"
	"github.com/cybertimeline/cybertimeline/pkg/enrich"
	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/ingest"
	"github.com/cybertimeline/cybertimeline/pkg/insight"
	"github.com/cybertimeline/cybertimeline/pkg/normalize"
	"github.com/cybertimeline/cybertimeline/pkg/snapshot"
	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// Stage helpers shared by the per-stage commands and the run
// orchestrator. They exit the process on failure; a half-written month
// is worse than a loud stop.

// discoverReport finds a raw report by filename keywords. Empty result
// means the report was not exported this month.
func discoverReport(cfg *config.Config, month entity.Month, alternatives [][]string) string {
	path, err := config.FindReport(cfg.RawDir(month), alternatives)
	if err != nil {
		exitWithError("Scanning %s: %v", cfg.RawDir(month), err)
	}
	return path
}

func stageNormalizeUsers(cfg *config.Config, month entity.Month, input string) *entity.UserSnapshot {
	if input == "" {
		input = discoverReport(cfg, month, cfg.Discovery.UserList)
	}
	if input == "" {
		exitWithError("User list export not found in %s", cfg.RawDir(month))
	}
	ui.PrintConfigLine("user list", filepath.Base(input))

	table, err := ingest.ReadFile(input, ingest.UserListOptions())
	if err != nil {
		exitWithError("Reading user list: %v", err)
	}
	printWarnings(table.Warnings)

	store := openStore(cfg.NormalizedDir())
	prev := loadPreviousUsers(store, month)

	snap, stats, err := normalize.Users(table.Rows, month, prev, normalize.Options{DomainAliases: cfg.DomainAliases})
	if err != nil {
		exitWithError("Normalizing users: %v", err)
	}
	if err := store.SaveUsers(snap, month); err != nil {
		exitWithError("Writing user snapshot: %v", err)
	}

	ui.PrintStat("rows", stats.Rows)
	ui.PrintStat("accepted", stats.Accepted)
	ui.PrintStat("no identity", stats.NoIdentity)
	ui.PrintStat("duplicates", stats.Duplicates)
	ui.PrintSuccess(fmt.Sprintf("User snapshot written to %s", store.UserPath(month)))
	return snap
}

func stageNormalizeAssets(cfg *config.Config, month entity.Month, input string) *entity.AssetSnapshot {
	if input == "" {
		input = discoverReport(cfg, month, cfg.Discovery.AssetList)
	}
	if input == "" {
		exitWithError("Asset list export not found in %s", cfg.RawDir(month))
	}
	ui.PrintConfigLine("asset list", filepath.Base(input))

	table, err := ingest.ReadFile(input, ingest.AssetListOptions())
	if err != nil {
		exitWithError("Reading asset list: %v", err)
	}
	printWarnings(table.Warnings)

	store := openStore(cfg.NormalizedDir())
	prev := loadPreviousAssets(store, month)

	snap, stats, err := normalize.Assets(table.Rows, month, prev, normalize.Options{DomainAliases: cfg.DomainAliases})
	if err != nil {
		exitWithError("Normalizing assets: %v", err)
	}
	if err := store.SaveAssets(snap, month); err != nil {
		exitWithError("Writing asset snapshot: %v", err)
	}

	ui.PrintStat("rows", stats.Rows)
	ui.PrintStat("accepted", stats.Accepted)
	ui.PrintStat("no identity", stats.NoIdentity)
	ui.PrintStat("duplicates", stats.Duplicates)
	ui.PrintSuccess(fmt.Sprintf("Asset snapshot written to %s", store.AssetPath(month)))
	return snap
}

// stageDiff diffs month against its predecessor from the normalized
// store. A missing previous month yields the explicit empty-diff
// sentinel, never a fabricated zero-change comparison.
func stageDiff(cfg *config.Config, month entity.Month, runID string) *diff.Diff {
	store := openStore(cfg.NormalizedDir())

	currUsers, err := store.LoadUsers(month)
	if err != nil {
		exitWithError("Loading user snapshot for %s: %v", month, err)
	}
	currAssets, err := store.LoadAssets(month)
	if err != nil {
		exitWithError("Loading asset snapshot for %s: %v", month, err)
	}

	var d *diff.Diff
	prevUsers := loadPreviousUsers(store, month)
	prevAssets := loadPreviousAssets(store, month)
	if prevUsers == nil || prevAssets == nil {
		ui.PrintInfo(fmt.Sprintf("No snapshots for %s, writing empty diff", month.Prev()))
		d = diff.Empty(month)
	} else {
		d = diff.Compute(prevUsers, currUsers, prevAssets, currAssets)
	}
	d.Metadata.RunID = runID

	out := diffPath(cfg, month)
	if err := snapshot.WriteJSON(out, d); err != nil {
		exitWithError("Writing diff: %v", err)
	}

	ui.PrintStat("new users", len(d.Users.New))
	ui.PrintStat("resigned users", len(d.Users.Resigned))
	ui.PrintStat("new devices", len(d.Assets.New))
	ui.PrintStat("alerts", len(d.Alerts))
	ui.PrintSuccess(fmt.Sprintf("Diff written to %s", out))
	return d
}

// reportPaths carries explicit report locations; empty fields fall
// back to filename discovery in the month's raw directory.
type reportPaths struct {
	edr      string
	backup   string
	phishing string
	darkWeb  string
}

// stageEnrich loads the month's normalized snapshots, merges every
// vendor report that exists, and writes enriched snapshots. A missing
// report skips its merger with a warning; the other namespaces still
// apply.
func stageEnrich(cfg *config.Config, month entity.Month, paths reportPaths) (*entity.UserSnapshot, *entity.AssetSnapshot) {
	normalized := openStore(cfg.NormalizedDir())
	users, err := normalized.LoadUsers(month)
	if err != nil {
		exitWithError("Loading user snapshot for %s: %v", month, err)
	}
	assets, err := normalized.LoadAssets(month)
	if err != nil {
		exitWithError("Loading asset snapshot for %s: %v", month, err)
	}

	if paths.edr == "" {
		paths.edr = discoverReport(cfg, month, cfg.Discovery.EDR)
	}
	if paths.edr != "" {
		records, warnings, err := ingest.ReadEDRReport(paths.edr)
		if err != nil {
			exitWithError("Reading EDR report: %v", err)
		}
		printWarnings(warnings)
		enrich.ApplyEDR(assets, records)
		ui.PrintConfigLine("edr", filepath.Base(paths.edr))
	} else {
		ui.PrintWarning("EDR report not found, skipping")
	}

	if paths.backup == "" {
		paths.backup = discoverReport(cfg, month, cfg.Discovery.Backup)
	}
	if paths.backup != "" {
		records, warnings, err := ingest.ReadBackupReport(paths.backup)
		if err != nil {
			exitWithError("Reading backup report: %v", err)
		}
		printWarnings(warnings)
		enrich.ApplyBackup(assets, records)
		ui.PrintConfigLine("backup", filepath.Base(paths.backup))
	} else {
		ui.PrintWarning("Backup report not found, skipping")
	}

	if paths.phishing == "" {
		paths.phishing = discoverReport(cfg, month, cfg.Discovery.Phishing)
	}
	if paths.phishing != "" {
		records, warnings, err := ingest.ReadPhishingReport(paths.phishing)
		if err != nil {
			exitWithError("Reading phishing report: %v", err)
		}
		printWarnings(warnings)
		enrich.ApplyPhishing(users, records, cfg.DomainAliases)
		ui.PrintConfigLine("phishing", filepath.Base(paths.phishing))
	} else {
		ui.PrintWarning("Phishing report not found, skipping")
	}

	if paths.darkWeb == "" {
		paths.darkWeb = discoverReport(cfg, month, cfg.Discovery.DarkWeb)
	}
	if paths.darkWeb != "" {
		records, warnings, err := ingest.ReadDarkWebReport(paths.darkWeb)
		if err != nil {
			exitWithError("Reading dark web report: %v", err)
		}
		printWarnings(warnings)
		enrich.ApplyDarkWeb(users, records, cfg.DomainAliases)
		ui.PrintConfigLine("dark web", filepath.Base(paths.darkWeb))
	} else {
		ui.PrintWarning("Dark web report not found, skipping")
	}

	enriched := openStore(cfg.EnrichedDir())
	if err := enriched.SaveUsers(users, month); err != nil {
		exitWithError("Writing enriched user snapshot: %v", err)
	}
	if err := enriched.SaveAssets(assets, month); err != nil {
		exitWithError("Writing enriched asset snapshot: %v", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Enriched snapshots written to %s", cfg.EnrichedDir()))
	return users, assets
}

// stageInsight derives the insight bundle from the enriched snapshots
// and the month's diff artifact.
func stageInsight(cfg *config.Config, month entity.Month, runID string) *insight.Bundle {
	enriched := openStore(cfg.EnrichedDir())
	users, err := enriched.LoadUsers(month)
	if err != nil {
		exitWithError("Loading enriched user snapshot for %s: %v (run 'cybertl enrich' first)", month, err)
	}
	assets, err := enriched.LoadAssets(month)
	if err != nil {
		exitWithError("Loading enriched asset snapshot for %s: %v (run 'cybertl enrich' first)", month, err)
	}

	var d diff.Diff
	if err := snapshot.ReadJSON(diffPath(cfg, month), &d); err != nil {
		exitWithError("Loading diff for %s: %v (run 'cybertl diff' first)", month, err)
	}

	bundle := insight.Derive(users, assets, &d)
	bundle.Metadata.RunID = runID

	out := insightPath(cfg, month)
	if err := snapshot.WriteJSON(out, bundle); err != nil {
		exitWithError("Writing insights: %v", err)
	}

	ui.PrintStat("onboarded", bundle.Identity.Onboarded.Count)
	ui.PrintStat("offboarded", bundle.Identity.Offboarded.Count)
	ui.PrintStat("positives", len(bundle.Positives))
	ui.PrintConfigLine("backup coverage", fmt.Sprintf("%.1f%%", bundle.SummaryMetrics.BackupCoveragePercent))
	ui.PrintSuccess(fmt.Sprintf("Insights written to %s", out))
	return bundle
}

func diffPath(cfg *config.Config, month entity.Month) string {
	return filepath.Join(cfg.DiffDir(), fmt.Sprintf("%s-diff.json", month))
}

func insightPath(cfg *config.Config, month entity.Month) string {
	return filepath.Join(cfg.InsightDir(), fmt.Sprintf("%s-insights.json", month))
}

func loadPreviousUsers(store *snapshot.Store, month entity.Month) *entity.UserSnapshot {
	prev, err := store.LoadUsers(month.Prev())
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		exitWithError("Loading previous user snapshot: %v", err)
	}
	return prev
}

func loadPreviousAssets(store *snapshot.Store, month entity.Month) *entity.AssetSnapshot {
	prev, err := store.LoadAssets(month.Prev())
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		exitWithError("Loading previous asset snapshot: %v", err)
	}
	return prev
}
