package enrich

import (
	"time"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
)

// ApplyEDR merges EDR endpoint data into the asset snapshot's
// security_state namespace. Assets the report never mentions get an
// explicit "not installed / unknown risk" state so the gap is visible
// downstream.
func ApplyEDR(snap *entity.AssetSnapshot, records []EDRRecord) {
	bridge := NewBridge(snap)

	matched := make(map[string]EDRRecord)
	for _, rec := range records {
		for _, key := range bridge.Resolve(rec.Serial, rec.DeviceName) {
			matched[key] = rec
		}
	}

	for key, a := range snap.Assets {
		rec, ok := matched[key]
		if !ok {
			a.SecurityState = entity.SecurityState{RiskLevel: RiskUnknown}
			continue
		}
		a.SecurityState = entity.SecurityState{
			EDRInstalled: true,
			EDRAlerts:    rec.Alerts,
			EDRIncidents: rec.Incidents,
			RiskLevel:    edrRisk(rec),
		}
	}

	snap.Metadata.EDREnrichedAt = time.Now().UTC()
}

func edrRisk(rec EDRRecord) string {
	switch {
	case rec.Incidents > 0:
		return RiskHigh
	case rec.Alerts > 0:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ApplyBackup merges backup health data into the asset snapshot's
// backup_state namespace using the conservative default: an asset the
// report never mentions is assumed covered at medium risk, which is a
// different state from an explicit "pending installation" (disabled,
// high risk) or "failed" (enabled, high risk). Backup reports
// enumerate exceptions, not the full fleet.
func ApplyBackup(snap *entity.AssetSnapshot, records []BackupRecord) {
	bridge := NewBridge(snap)

	matched := make(map[string]BackupRecord)
	for _, rec := range records {
		for _, key := range bridge.Resolve(rec.Serial, rec.DeviceName) {
			matched[key] = rec
		}
	}

	for key, a := range snap.Assets {
		rec, ok := matched[key]
		if !ok {
			a.BackupState = entity.BackupState{
				Enabled:   true,
				Status:    BackupAssumed,
				RiskLevel: RiskMedium,
			}
			continue
		}
		a.BackupState = backupState(rec)
	}

	snap.Metadata.BackupEnrichedAt = time.Now().UTC()
}

func backupState(rec BackupRecord) entity.BackupState {
	status := CanonicalBackupStatus(rec.Status)
	state := entity.BackupState{
		Enabled:     true,
		Status:      status,
		LastSuccess: rec.LastSuccess,
	}
	switch status {
	case BackupHealthy:
		state.RiskLevel = RiskLow
	case BackupInProgress, BackupUnknown:
		state.RiskLevel = RiskMedium
	case BackupFailed:
		state.RiskLevel = RiskHigh
	case BackupPendingInstall:
		state.Enabled = false
		state.RiskLevel = RiskHigh
	}
	return state
}
