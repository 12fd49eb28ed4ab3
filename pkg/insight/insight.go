// Package insight derives the fixed taxonomy of reporting facts from
// one month's enriched snapshots plus the month-over-month diff. The
// derivation is a pure function of its inputs: the narrative, PDF and
// dashboard layers reformat these facts and must never recompute them.
package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cybertimeline/cybertimeline/pkg/diff"
	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/enrich"
)

// Metadata records the bundle's provenance.
type Metadata struct {
	Month       entity.Month `json:"month"`
	GeneratedAt time.Time    `json:"generated_at"`
	RunID       string       `json:"run_id,omitempty"`
}

// SummaryMetrics is the headline KPI block.
type SummaryMetrics struct {
	TotalUsers            int     `json:"total_users"`
	TotalAssets           int     `json:"total_assets"`
	UserChange            int     `json:"user_change"`
	AssetChange           int     `json:"asset_change"`
	BackupCoveragePercent float64 `json:"backup_coverage_percent"`
}

// Finding pairs a count with the named entities behind it. Downstream
// narration needs the names verbatim; the count alone is not enough.
type Finding struct {
	Count    int      `json:"count"`
	Entities []string `json:"entities"`
	Summary  string   `json:"summary,omitempty"`
}

// IdentityInsights covers onboarding and offboarding.
type IdentityInsights struct {
	Onboarded  Finding `json:"onboarded"`
	Offboarded Finding `json:"offboarded"`
}

// AssetInsights covers inventory additions and retirements.
type AssetInsights struct {
	Added   Finding `json:"added"`
	Retired Finding `json:"retired"`
}

// SecurityInsights covers the adverse findings, each as count + names.
type SecurityInsights struct {
	PhishingFailures Finding `json:"phishing_failures"`
	DarkWebExposures Finding `json:"dark_web_exposures"`
	EDRIncidents     Finding `json:"edr_incidents"`
	BackupProblems   Finding `json:"backup_problems"`
}

// Bundle is the complete derived fact set for one month.
type Bundle struct {
	Metadata       Metadata         `json:"metadata"`
	SummaryMetrics SummaryMetrics   `json:"summary_metrics"`
	Identity       IdentityInsights `json:"identity"`
	Assets         AssetInsights    `json:"assets"`
	Security       SecurityInsights `json:"security"`
	Positives      []string         `json:"positive_findings"`
}

// Derive builds the insight bundle from enriched snapshots and the
// diff. Apart from the metadata timestamp, output is fully determined
// by the inputs.
func Derive(users *entity.UserSnapshot, assets *entity.AssetSnapshot, d *diff.Diff) *Bundle {
	b := &Bundle{
		Metadata: Metadata{
			Month:       users.Metadata.Month,
			GeneratedAt: time.Now().UTC(),
		},
		SummaryMetrics: SummaryMetrics{
			TotalUsers:            len(users.Users),
			TotalAssets:           len(assets.Assets),
			UserChange:            d.Metrics.UserCountChange,
			AssetChange:           d.Metrics.DeviceCountChange,
			BackupCoveragePercent: backupCoverage(assets),
		},
		Identity: IdentityInsights{
			Onboarded:  listFinding(d.Users.New, "%d new user(s) were onboarded during the period."),
			Offboarded: listFinding(d.Users.Resigned, "%d user(s) were deprovisioned during the period."),
		},
		Assets: AssetInsights{
			Added:   listFinding(d.Assets.New, "%d new workstation(s) were added."),
			Retired: listFinding(d.Assets.Retired, "%d workstation(s) were retired."),
		},
		Security: deriveSecurity(users, assets),
	}
	b.Positives = derivePositives(b.Security)
	return b
}

// backupCoverage is the percentage of assets with backups enabled,
// rounded to one decimal place. An empty snapshot yields 0.0 rather
// than a division error.
func backupCoverage(assets *entity.AssetSnapshot) float64 {
	enabled := 0
	for _, a := range assets.Assets {
		if a.BackupState.Enabled {
			enabled++
		}
	}
	total := len(assets.Assets)
	if total < 1 {
		total = 1
	}
	return math.Round(float64(enabled)/float64(total)*1000) / 10
}

func deriveSecurity(users *entity.UserSnapshot, assets *entity.AssetSnapshot) SecurityInsights {
	var phished, exposed []string
	for _, email := range sortedUserKeys(users.Users) {
		u := users.Users[email]
		if u.RiskSignals.PhishingClicked {
			phished = append(phished, email)
		}
		if u.RiskSignals.DarkWebExposed {
			exposed = append(exposed, email)
		}
	}

	var incidents, backupProblems []string
	for _, key := range sortedAssetKeys(assets.Assets) {
		a := assets.Assets[key]
		if a.SecurityState.EDRIncidents > 0 {
			incidents = append(incidents, key)
		}
		if !a.BackupState.Enabled || a.BackupState.RiskLevel == enrich.RiskHigh {
			backupProblems = append(backupProblems, key)
		}
	}

	return SecurityInsights{
		PhishingFailures: listFinding(phished, "%d user(s) failed a phishing simulation."),
		DarkWebExposures: listFinding(exposed, "%d user(s) had credentials exposed on the dark web."),
		EDRIncidents:     listFinding(incidents, "%d asset(s) have unresolved EDR incidents."),
		BackupProblems:   listFinding(backupProblems, "%d asset(s) have failing or missing backups."),
	}
}

// derivePositives emits each fixed good-news sentence only when the
// matching adverse count is exactly zero.
func derivePositives(sec SecurityInsights) []string {
	positives := []string{}
	if sec.PhishingFailures.Count == 0 {
		positives = append(positives, "No users failed phishing simulations this period.")
	}
	if sec.DarkWebExposures.Count == 0 {
		positives = append(positives, "No credential exposures were found on the dark web.")
	}
	if sec.EDRIncidents.Count == 0 {
		positives = append(positives, "No high-severity EDR incidents were detected.")
	}
	if sec.BackupProblems.Count == 0 {
		positives = append(positives, "All monitored devices have healthy backup status.")
	}
	return positives
}

// listFinding builds a Finding whose summary is rendered from the
// count; an empty list gets no summary sentence.
func listFinding(entities []string, format string) Finding {
	f := Finding{Count: len(entities), Entities: entities}
	if f.Entities == nil {
		f.Entities = []string{}
	}
	if f.Count > 0 {
		f.Summary = fmt.Sprintf(format, f.Count)
	}
	return f
}

func sortedUserKeys(m map[string]*entity.User) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAssetKeys(m map[string]*entity.Asset) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
