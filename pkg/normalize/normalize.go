// Package normalize turns raw extracted table rows into canonical
// monthly snapshots, resolving column synonyms, identity keys and the
// first-seen/last-seen lifecycle against the previous month.
package normalize

import (
	"strings"
	"time"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
)

// Options tunes identity resolution.
type Options struct {
	// DomainAliases remaps legacy email domains to their canonical
	// form before the address is used as an identity key.
	DomainAliases map[string]string
}

// Stats counts the row-level issues that are reported as warnings but
// never abort a run.
type Stats struct {
	Rows       int `json:"rows"`
	Accepted   int `json:"accepted"`
	NoIdentity int `json:"no_identity"`
	Duplicates int `json:"duplicates"`
}

// Users normalizes raw user-list rows into a user snapshot for month.
// prev is the previous month's snapshot or nil for the first month.
// Row-level problems are counted in Stats; a missing mandatory column
// is a *SchemaError and an invalid result set a *ValidationError.
func Users(rows []Row, month entity.Month, prev *entity.UserSnapshot, opts Options) (*entity.UserSnapshot, Stats, error) {
	var stats Stats
	idx := newColumnIndex(rows)
	if !idx.has(FieldEmail) {
		return nil, stats, &SchemaError{Field: FieldEmail, Headers: idx.headers}
	}

	users := make(map[string]*entity.User)
	for _, row := range rows {
		stats.Rows++

		email := NormalizeEmail(idx.value(row, FieldEmail), opts.DomainAliases)
		if email == "" {
			stats.NoIdentity++
			continue
		}
		if _, ok := users[email]; ok {
			// First occurrence wins; the earliest listing order is the
			// source of truth within a single export.
			stats.Duplicates++
			continue
		}

		users[email] = &entity.User{
			Name:     userName(idx, row),
			Status:   userStatus(idx.value(row, FieldSignIn)),
			LastSeen: month,
			Services: entity.Services{
				M365: hasM365(idx.value(row, FieldProducts)),
			},
		}
		stats.Accepted++
	}

	resolveUserFirstSeen(users, prev, month)

	if err := validateUsers(users); err != nil {
		return nil, stats, err
	}

	return &entity.UserSnapshot{
		Metadata: entity.Metadata{
			SchemaVersion: entity.SchemaVersion,
			GeneratedAt:   time.Now().UTC(),
			Month:         month,
			Source:        "user_list",
		},
		Users: users,
	}, stats, nil
}

// Assets normalizes raw asset-list rows into an asset snapshot for
// month. Assets present in prev but absent from the current input are
// carried forward with status retired and all other fields frozen.
func Assets(rows []Row, month entity.Month, prev *entity.AssetSnapshot, opts Options) (*entity.AssetSnapshot, Stats, error) {
	var stats Stats
	idx := newColumnIndex(rows)
	if !idx.has(FieldSerial) && !idx.has(FieldDeviceName) {
		return nil, stats, &SchemaError{Field: FieldSerial + " or " + FieldDeviceName, Headers: idx.headers}
	}

	assets := make(map[string]*entity.Asset)
	for _, row := range rows {
		stats.Rows++

		serial := NormalizeSerial(idx.value(row, FieldSerial))
		device := NormalizeDeviceName(idx.value(row, FieldDeviceName))
		if serial == "" && device == "" {
			stats.NoIdentity++
			continue
		}

		asset := &entity.Asset{
			DeviceName:   device,
			SerialNumber: serial,
			AssignedUser: NormalizeEmail(idx.value(row, FieldUser), opts.DomainAliases),
			Type:         "workstation",
			Model:        idx.value(row, FieldModel),
			OS:           idx.value(row, FieldOS),
			Status:       entity.AssetActive,
			LastSeen:     month,
		}

		key := asset.ID().String()
		if _, ok := assets[key]; ok {
			stats.Duplicates++
			continue
		}
		assets[key] = asset
		stats.Accepted++
	}

	resolveAssetFirstSeen(assets, prev, month)
	carryForwardRetired(assets, prev)

	if err := validateAssets(assets); err != nil {
		return nil, stats, err
	}

	return &entity.AssetSnapshot{
		Metadata: entity.Metadata{
			SchemaVersion: entity.SchemaVersion,
			GeneratedAt:   time.Now().UTC(),
			Month:         month,
			Source:        "asset_list",
		},
		Assets: assets,
	}, stats, nil
}

// userName composes the display name from first/last columns, falling
// back to a single name column.
func userName(idx *columnIndex, row Row) string {
	first := idx.value(row, FieldFirstName)
	last := idx.value(row, FieldLastName)
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return idx.value(row, FieldName)
}

func userStatus(signIn string) entity.UserStatus {
	switch strings.ToLower(signIn) {
	case "yes", "true", "allowed", "enabled":
		return entity.UserActive
	default:
		return entity.UserInactive
	}
}

func hasM365(products string) bool {
	p := strings.ToLower(products)
	return strings.Contains(p, "office 365") || strings.Contains(p, "microsoft 365")
}

// resolveUserFirstSeen carries first_seen forward for identities that
// already existed; everyone else was first seen this month.
func resolveUserFirstSeen(users map[string]*entity.User, prev *entity.UserSnapshot, month entity.Month) {
	for email, u := range users {
		if prev != nil {
			if p, ok := prev.Users[email]; ok && p.FirstSeen != "" {
				u.FirstSeen = p.FirstSeen
				continue
			}
		}
		u.FirstSeen = month
	}
}

func resolveAssetFirstSeen(assets map[string]*entity.Asset, prev *entity.AssetSnapshot, month entity.Month) {
	for key, a := range assets {
		if prev != nil {
			if p, ok := prev.Assets[key]; ok && p.FirstSeen != "" {
				a.FirstSeen = p.FirstSeen
				continue
			}
		}
		a.FirstSeen = month
	}
}

// carryForwardRetired adds every previous-month asset missing from the
// current input back into the snapshot as retired, with its fields
// (including last_seen) frozen at their last known values.
func carryForwardRetired(assets map[string]*entity.Asset, prev *entity.AssetSnapshot) {
	if prev == nil {
		return
	}
	for key, p := range prev.Assets {
		if _, ok := assets[key]; ok {
			continue
		}
		frozen := *p
		frozen.Status = entity.AssetRetired
		assets[key] = &frozen
	}
}

func validateUsers(users map[string]*entity.User) error {
	if len(users) == 0 {
		return &ValidationError{Reason: "no users resolved from input"}
	}
	for email, u := range users {
		if u.Name == "" {
			return &ValidationError{Reason: "user " + email + " has no name"}
		}
		if u.FirstSeen == "" {
			return &ValidationError{Reason: "user " + email + " has no first_seen"}
		}
	}
	return nil
}

func validateAssets(assets map[string]*entity.Asset) error {
	if len(assets) == 0 {
		return &ValidationError{Reason: "no assets resolved from input"}
	}
	for key, a := range assets {
		if a.FirstSeen == "" {
			return &ValidationError{Reason: "asset " + key + " has no first_seen"}
		}
	}
	return nil
}
