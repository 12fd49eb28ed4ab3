// Package entity defines the canonical user and asset records the
// pipeline tracks across months, together with their identity keys and
// monthly snapshot containers. Raw vendor exports are normalized into
// these types once; every downstream stage (diff, enrichment, insights)
// consumes them read-only.
package entity

import "time"

// SchemaVersion is stamped into every snapshot so that a policy change
// (field names, enrichment defaults) is an explicit migration rather
// than silent drift between months.
const SchemaVersion = 1

// UserStatus is the directory account state.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// AssetStatus is the inventory lifecycle state. Retired assets stay in
// the snapshot with their last known fields frozen; they are never
// deleted.
type AssetStatus string

const (
	AssetActive  AssetStatus = "active"
	AssetRetired AssetStatus = "retired"
)

// Services records which managed services cover a user. The m365 flag
// comes from the directory export; every other flag is set only by
// enrichment.
type Services struct {
	M365              bool `json:"m365"`
	EDR               bool `json:"edr"`
	Backup            bool `json:"backup"`
	PhishingTraining  bool `json:"phishing_training"`
	DarkWebMonitoring bool `json:"dark_web_monitoring"`
}

// RiskSignals holds per-user risk data. Populated exclusively by the
// phishing and dark-web mergers; the normalizer leaves it zeroed.
type RiskSignals struct {
	PhishingClicked   bool   `json:"phishing_clicked"`
	PhishingFailures  int    `json:"phishing_failures"`
	PhishingCampaigns int    `json:"phishing_campaigns"`
	PhishingRisk      string `json:"phishing_risk,omitempty"`
	DarkWebExposed    bool   `json:"dark_web_exposed"`
	DarkWebSource     string `json:"dark_web_source,omitempty"`
	DarkWebSeverity   string `json:"dark_web_severity,omitempty"`
	EDRIncidents      int    `json:"edr_incidents"`
}

// User is the canonical identity record, keyed in snapshots by
// normalized email address.
type User struct {
	Name        string      `json:"name"`
	Status      UserStatus  `json:"status"`
	FirstSeen   Month       `json:"first_seen"`
	LastSeen    Month       `json:"last_seen"`
	Services    Services    `json:"services"`
	RiskSignals RiskSignals `json:"risk_signals"`
}

// BackupState is the backup health namespace on an asset, owned by the
// backup merger. Status is one of healthy, in_progress, failed,
// pending_install, assumed_enabled or unknown.
type BackupState struct {
	Enabled     bool   `json:"enabled"`
	Status      string `json:"status"`
	LastSuccess string `json:"last_success,omitempty"`
	RiskLevel   string `json:"risk_level"`
}

// SecurityState is the EDR namespace on an asset, owned by the EDR
// merger.
type SecurityState struct {
	EDRInstalled bool   `json:"edr_installed"`
	EDRAlerts    int    `json:"edr_alerts"`
	EDRIncidents int    `json:"edr_incidents"`
	RiskLevel    string `json:"risk_level,omitempty"`
}

// Asset is the canonical inventory record, keyed in snapshots by the
// string form of its AssetID.
type Asset struct {
	DeviceName    string        `json:"device_name"`
	SerialNumber  string        `json:"serial_number,omitempty"`
	AssignedUser  string        `json:"assigned_user,omitempty"`
	Type          string        `json:"type"`
	Model         string        `json:"model,omitempty"`
	OS            string        `json:"os,omitempty"`
	Status        AssetStatus   `json:"status"`
	FirstSeen     Month         `json:"first_seen"`
	LastSeen      Month         `json:"last_seen"`
	BackupState   BackupState   `json:"backup_state"`
	SecurityState SecurityState `json:"security_state"`
}

// ID returns the asset's canonical identity: serial preferred, device
// name as fallback.
func (a *Asset) ID() AssetID {
	if a.SerialNumber != "" {
		return SerialID(a.SerialNumber)
	}
	return NameID(a.DeviceName)
}

// Metadata describes a snapshot's provenance. Each enrichment merger
// stamps only its own timestamp; the rest of the struct is written once
// by the normalizer.
type Metadata struct {
	SchemaVersion      int       `json:"schema_version"`
	GeneratedAt        time.Time `json:"generated_at"`
	Month              Month     `json:"month"`
	Source             string    `json:"source"`
	EDREnrichedAt      time.Time `json:"edr_enriched_at,omitzero"`
	BackupEnrichedAt   time.Time `json:"backup_enriched_at,omitzero"`
	PhishingEnrichedAt time.Time `json:"phishing_enriched_at,omitzero"`
	DarkWebEnrichedAt  time.Time `json:"darkweb_enriched_at,omitzero"`
}

// UserSnapshot is the full canonical user state for one month.
type UserSnapshot struct {
	Metadata Metadata         `json:"metadata"`
	Users    map[string]*User `json:"users"`
}

// AssetSnapshot is the full canonical asset state for one month,
// including carried-forward retired assets.
type AssetSnapshot struct {
	Metadata Metadata          `json:"metadata"`
	Assets   map[string]*Asset `json:"assets"`
}
