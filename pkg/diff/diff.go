// Package diff compares two consecutive monthly snapshots and produces
// the month-over-month change log: new and departed identities,
// service and ownership changes, derived alerts and cardinality
// metrics. Output is deterministic for fixed inputs: every list is
// sorted by identity key, and only the generation timestamp varies
// between runs.
package diff

import (
	"fmt"
	"sort"
	"time"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
)

// Alert types derived from a diff. The rule set is fixed; severities
// are part of the data contract consumed by the report layer.
const (
	AlertOrphanedDevice     = "orphaned_device"
	AlertResignedUserDevice = "resigned_user_device"

	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Metadata records which months a diff spans.
type Metadata struct {
	FromMonth   entity.Month `json:"from_month"`
	ToMonth     entity.Month `json:"to_month"`
	GeneratedAt time.Time    `json:"generated_at"`
	RunID       string       `json:"run_id,omitempty"`
}

// ServiceChange lists service flags that flipped for one user.
type ServiceChange struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// OwnershipChange records an asset moving between users. Empty strings
// mean unassigned.
type OwnershipChange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// UserDiff is the user-side change set.
type UserDiff struct {
	New            []string                 `json:"new_users"`
	Resigned       []string                 `json:"resigned_users"`
	ServiceChanges map[string]ServiceChange `json:"service_changes"`
}

// AssetDiff is the asset-side change set.
type AssetDiff struct {
	New              []string                   `json:"new_devices"`
	Retired          []string                   `json:"retired_devices"`
	OwnershipChanges map[string]OwnershipChange `json:"ownership_changes"`
}

// Metrics carries the headline cardinality deltas.
type Metrics struct {
	UserCountChange   int `json:"user_count_change"`
	DeviceCountChange int `json:"device_count_change"`
}

// Alert is one derived finding, severe enough to surface by name.
type Alert struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Identity string `json:"identity"`
	Message  string `json:"message"`
}

// Diff is the complete month-over-month change log.
type Diff struct {
	Metadata Metadata  `json:"metadata"`
	Users    UserDiff  `json:"users"`
	Assets   AssetDiff `json:"assets"`
	Metrics  Metrics   `json:"metrics"`
	Alerts   []Alert   `json:"alerts"`
}

// Empty returns the sentinel substituted when no previous month
// exists. It is explicitly distinct from running Compute against empty
// snapshots: "no previous data" must never read as "zero change".
func Empty(month entity.Month) *Diff {
	return &Diff{
		Metadata: Metadata{ToMonth: month, GeneratedAt: time.Now().UTC()},
		Users:    UserDiff{New: []string{}, Resigned: []string{}, ServiceChanges: map[string]ServiceChange{}},
		Assets:   AssetDiff{New: []string{}, Retired: []string{}, OwnershipChanges: map[string]OwnershipChange{}},
		Alerts:   []Alert{},
	}
}

// Compute diffs two consecutive snapshot pairs. All four snapshots
// must be non-nil; when the previous month is missing the caller
// substitutes Empty instead.
func Compute(prevUsers, currUsers *entity.UserSnapshot, prevAssets, currAssets *entity.AssetSnapshot) *Diff {
	d := &Diff{
		Metadata: Metadata{
			FromMonth:   prevUsers.Metadata.Month,
			ToMonth:     currUsers.Metadata.Month,
			GeneratedAt: time.Now().UTC(),
		},
		Users:  diffUsers(prevUsers.Users, currUsers.Users),
		Assets: diffAssets(prevAssets.Assets, currAssets.Assets),
		Metrics: Metrics{
			UserCountChange:   len(currUsers.Users) - len(prevUsers.Users),
			DeviceCountChange: len(currAssets.Assets) - len(prevAssets.Assets),
		},
	}
	d.Alerts = deriveAlerts(d.Users.Resigned, currAssets.Assets)
	return d
}

func diffUsers(prev, curr map[string]*entity.User) UserDiff {
	ud := UserDiff{
		New:            newKeys(userKeys(curr), prev),
		Resigned:       newKeys(userKeys(prev), curr),
		ServiceChanges: make(map[string]ServiceChange),
	}

	for email, c := range curr {
		p, ok := prev[email]
		if !ok {
			continue
		}
		added, removed := serviceDelta(p.Services, c.Services)
		if len(added) > 0 || len(removed) > 0 {
			ud.ServiceChanges[email] = ServiceChange{Added: added, Removed: removed}
		}
	}
	return ud
}

func diffAssets(prev, curr map[string]*entity.Asset) AssetDiff {
	ad := AssetDiff{
		New:              newAssetKeys(curr, prev),
		Retired:          newAssetKeys(prev, curr),
		OwnershipChanges: make(map[string]OwnershipChange),
	}

	for key, c := range curr {
		p, ok := prev[key]
		if !ok {
			continue
		}
		if p.AssignedUser != c.AssignedUser {
			ad.OwnershipChanges[key] = OwnershipChange{From: p.AssignedUser, To: c.AssignedUser}
		}
	}
	return ad
}

// serviceFlags iterates the fixed service set in a stable order.
func serviceFlags(s entity.Services) map[string]bool {
	return map[string]bool{
		"m365":                s.M365,
		"edr":                 s.EDR,
		"backup":              s.Backup,
		"phishing_training":   s.PhishingTraining,
		"dark_web_monitoring": s.DarkWebMonitoring,
	}
}

// serviceDelta returns the services that became active and the ones
// that stopped being active. A flag that is present but false counts
// as not active on both sides.
func serviceDelta(prev, curr entity.Services) (added, removed []string) {
	p, c := serviceFlags(prev), serviceFlags(curr)
	for name, on := range c {
		if on && !p[name] {
			added = append(added, name)
		}
	}
	for name, on := range p {
		if on && !c[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// deriveAlerts applies the fixed alert rules against the current
// month's assets. Iteration is over sorted keys so alert order is
// stable.
func deriveAlerts(resigned []string, assets map[string]*entity.Asset) []Alert {
	alerts := []Alert{}
	keys := sortedAssetKeys(assets)

	for _, key := range keys {
		a := assets[key]
		if a.Status == entity.AssetActive && a.AssignedUser == "" {
			alerts = append(alerts, Alert{
				Type:     AlertOrphanedDevice,
				Severity: SeverityHigh,
				Identity: key,
				Message:  fmt.Sprintf("Device %s has no assigned user", displayName(a)),
			})
		}
	}

	for _, email := range resigned {
		for _, key := range keys {
			if assets[key].AssignedUser == email {
				alerts = append(alerts, Alert{
					Type:     AlertResignedUserDevice,
					Severity: SeverityCritical,
					Identity: key,
					Message:  fmt.Sprintf("Resigned user %s still has device %s", email, displayName(assets[key])),
				})
			}
		}
	}
	return alerts
}

// displayName picks the operator-facing device name for alert text:
// the serial when that is all we have, otherwise the device name.
func displayName(a *entity.Asset) string {
	if a.DeviceName != "" {
		return a.DeviceName
	}
	return a.SerialNumber
}

func userKeys(m map[string]*entity.User) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// newKeys returns the sorted subset of keys absent from other.
func newKeys[T any](keys []string, other map[string]T) []string {
	out := []string{}
	for _, k := range keys {
		if _, ok := other[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func newAssetKeys(from, other map[string]*entity.Asset) []string {
	out := []string{}
	for k := range from {
		if _, ok := other[k]; !ok {
			out = append(out, k)
		}
	}
	sortAssetKeys(out)
	return out
}

func sortedAssetKeys(m map[string]*entity.Asset) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortAssetKeys(keys)
	return keys
}

// sortAssetKeys orders snapshot keys through the parsed identity, so
// the name/serial tag is compared as a tag rather than as raw bytes.
// A key that does not parse sorts by its raw form; snapshots written
// by the normalizer never contain one.
func sortAssetKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := entity.ParseAssetID(keys[i])
		b, berr := entity.ParseAssetID(keys[j])
		if aerr != nil || berr != nil {
			return keys[i] < keys[j]
		}
		return a.Less(b)
	})
}
