// Package enrich merges third-party risk and health reports into
// existing monthly snapshots. Mergers never create or remove entities:
// a record that matches nothing in the snapshot is dropped, because
// vendor reports routinely mention machines and mailboxes that are
// long out of scope. Each merger owns one field namespace and is
// idempotent within it.
package enrich

import "strings"

// Backup status values, in the snapshot's canonical vocabulary.
const (
	BackupHealthy        = "healthy"
	BackupInProgress     = "in_progress"
	BackupFailed         = "failed"
	BackupPendingInstall = "pending_install"
	BackupAssumed        = "assumed_enabled"
	BackupUnknown        = "unknown"
)

// Risk levels shared by the backup and EDR namespaces.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

// EDRRecord is one endpoint row from an EDR export. Serial is the
// preferred key; DeviceName is the bridge key when the vendor only
// reports hostnames.
type EDRRecord struct {
	Serial     string `json:"serial,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
	Alerts     int    `json:"alerts"`
	Incidents  int    `json:"incidents"`
}

// BackupRecord is one device row from a backup health export. Backup
// reports enumerate exceptions, not full coverage: absence of a record
// is meaningful and handled by the conservative default.
type BackupRecord struct {
	Serial      string `json:"serial,omitempty"`
	DeviceName  string `json:"device_name,omitempty"`
	Status      string `json:"status"`
	LastSuccess string `json:"last_success,omitempty"`
}

// PhishingRecord is one user row from a phishing simulation export.
type PhishingRecord struct {
	Email   string `json:"email"`
	Sent    int    `json:"sent"`
	Clicked int    `json:"clicked"`
}

// DarkWebRecord is one exposure row from a dark-web monitoring export.
type DarkWebRecord struct {
	Email    string `json:"email"`
	Source   string `json:"source"`
	Severity string `json:"severity"`
}

// CanonicalBackupStatus folds a vendor's free-text backup status into
// the canonical vocabulary.
func CanonicalBackupStatus(raw string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "success"), strings.Contains(s, "completed"), strings.Contains(s, "healthy"):
		return BackupHealthy
	case strings.Contains(s, "fail"):
		return BackupFailed
	case strings.Contains(s, "progress"):
		return BackupInProgress
	case strings.Contains(s, "pending"), strings.Contains(s, "not installed"):
		return BackupPendingInstall
	default:
		return BackupUnknown
	}
}

// CanonicalSeverity folds a vendor's free-text severity into
// low/medium/high. Unrecognized values default to low, matching the
// dark-web report convention of only flagging serious exposures
// explicitly.
func CanonicalSeverity(raw string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "high"), strings.Contains(s, "critical"):
		return RiskHigh
	case strings.Contains(s, "medium"), strings.Contains(s, "moderate"):
		return RiskMedium
	default:
		return RiskLow
	}
}
