package insight

import (
	"reflect"
	"testing"

	"github.com/cybertimeline/cybertimeline/pkg/diff"
	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/enrich"
)

func quietMonth() (*entity.UserSnapshot, *entity.AssetSnapshot, *diff.Diff) {
	users := &entity.UserSnapshot{
		Metadata: entity.Metadata{Month: "2026-08"},
		Users: map[string]*entity.User{
			"alice@corp.com": {Name: "Alice"},
			"bob@corp.com":   {Name: "Bob"},
		},
	}
	assets := &entity.AssetSnapshot{
		Metadata: entity.Metadata{Month: "2026-08"},
		Assets: map[string]*entity.Asset{
			"SN:AAA": {SerialNumber: "AAA", Status: entity.AssetActive, BackupState: entity.BackupState{Enabled: true, RiskLevel: enrich.RiskLow}},
			"SN:BBB": {SerialNumber: "BBB", Status: entity.AssetActive, BackupState: entity.BackupState{Enabled: true, RiskLevel: enrich.RiskMedium}},
		},
	}
	return users, assets, diff.Empty("2026-08")
}

func TestDeriveQuietMonth(t *testing.T) {
	t.Parallel()

	users, assets, d := quietMonth()
	b := Derive(users, assets, d)

	if b.Metadata.Month != "2026-08" {
		t.Errorf("month = %s", b.Metadata.Month)
	}
	if b.SummaryMetrics.TotalUsers != 2 || b.SummaryMetrics.TotalAssets != 2 {
		t.Errorf("totals = %+v", b.SummaryMetrics)
	}
	if b.SummaryMetrics.BackupCoveragePercent != 100.0 {
		t.Errorf("coverage = %v", b.SummaryMetrics.BackupCoveragePercent)
	}

	// With zero adverse findings every positive is emitted.
	if len(b.Positives) != 4 {
		t.Errorf("positives = %v", b.Positives)
	}
	for _, f := range []Finding{b.Security.PhishingFailures, b.Security.DarkWebExposures, b.Security.EDRIncidents, b.Security.BackupProblems} {
		if f.Count != 0 || len(f.Entities) != 0 || f.Summary != "" {
			t.Errorf("finding should be empty: %+v", f)
		}
	}
}

func TestDeriveAdverseFindingsSuppressPositives(t *testing.T) {
	t.Parallel()

	users, assets, d := quietMonth()
	users.Users["alice@corp.com"].RiskSignals.PhishingClicked = true
	users.Users["bob@corp.com"].RiskSignals.DarkWebExposed = true
	assets.Assets["SN:AAA"].SecurityState.EDRIncidents = 2
	assets.Assets["SN:BBB"].BackupState = entity.BackupState{Enabled: false, RiskLevel: enrich.RiskHigh}

	b := Derive(users, assets, d)

	if len(b.Positives) != 0 {
		t.Errorf("positives = %v, want none", b.Positives)
	}
	if !reflect.DeepEqual(b.Security.PhishingFailures.Entities, []string{"alice@corp.com"}) {
		t.Errorf("phishing entities = %v", b.Security.PhishingFailures.Entities)
	}
	if !reflect.DeepEqual(b.Security.DarkWebExposures.Entities, []string{"bob@corp.com"}) {
		t.Errorf("dark web entities = %v", b.Security.DarkWebExposures.Entities)
	}
	if !reflect.DeepEqual(b.Security.EDRIncidents.Entities, []string{"SN:AAA"}) {
		t.Errorf("edr entities = %v", b.Security.EDRIncidents.Entities)
	}
	if !reflect.DeepEqual(b.Security.BackupProblems.Entities, []string{"SN:BBB"}) {
		t.Errorf("backup entities = %v", b.Security.BackupProblems.Entities)
	}
	if b.Security.PhishingFailures.Summary == "" {
		t.Error("non-zero finding has no summary")
	}
}

func TestDeriveSinglePositiveGating(t *testing.T) {
	t.Parallel()

	users, assets, d := quietMonth()
	users.Users["alice@corp.com"].RiskSignals.PhishingClicked = true

	b := Derive(users, assets, d)

	// Only the phishing positive is suppressed; the other three stay.
	if len(b.Positives) != 3 {
		t.Fatalf("positives = %v", b.Positives)
	}
	for _, p := range b.Positives {
		if p == "No users failed phishing simulations this period." {
			t.Error("phishing positive emitted despite a failure")
		}
	}
}

func TestBackupCoverageRounding(t *testing.T) {
	t.Parallel()

	assets := &entity.AssetSnapshot{Assets: map[string]*entity.Asset{}}
	for i, enabled := range []bool{true, true, false} {
		assets.Assets[string(rune('A'+i))] = &entity.Asset{BackupState: entity.BackupState{Enabled: enabled}}
	}
	// 2/3 = 66.666... rounds to one decimal.
	if got := backupCoverage(assets); got != 66.7 {
		t.Errorf("coverage = %v, want 66.7", got)
	}
}

func TestBackupCoverageEmptySnapshot(t *testing.T) {
	t.Parallel()

	assets := &entity.AssetSnapshot{Assets: map[string]*entity.Asset{}}
	if got := backupCoverage(assets); got != 0.0 {
		t.Errorf("coverage = %v, want 0.0 on empty snapshot", got)
	}
}

func TestDeriveCountsFromDiff(t *testing.T) {
	t.Parallel()

	users, assets, _ := quietMonth()
	d := &diff.Diff{
		Metadata: diff.Metadata{FromMonth: "2026-07", ToMonth: "2026-08"},
		Users: diff.UserDiff{
			New:      []string{"carol@corp.com"},
			Resigned: []string{"dave@corp.com", "erin@corp.com"},
		},
		Assets:  diff.AssetDiff{New: []string{"SN:NEW"}, Retired: []string{}},
		Metrics: diff.Metrics{UserCountChange: -1, DeviceCountChange: 1},
	}

	b := Derive(users, assets, d)

	if b.Identity.Onboarded.Count != 1 || b.Identity.Offboarded.Count != 2 {
		t.Errorf("identity counts = %+v", b.Identity)
	}
	if !reflect.DeepEqual(b.Identity.Offboarded.Entities, []string{"dave@corp.com", "erin@corp.com"}) {
		t.Errorf("offboarded entities = %v", b.Identity.Offboarded.Entities)
	}
	if b.SummaryMetrics.UserChange != -1 || b.SummaryMetrics.AssetChange != 1 {
		t.Errorf("summary deltas = %+v", b.SummaryMetrics)
	}
	if b.Assets.Retired.Count != 0 || b.Assets.Retired.Summary != "" {
		t.Errorf("retired finding = %+v", b.Assets.Retired)
	}
}
