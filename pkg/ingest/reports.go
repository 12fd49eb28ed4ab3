package ingest

import (
	"strconv"
	"strings"

	"github.com/cybertimeline/cybertimeline/pkg/enrich"
	"github.com/cybertimeline/cybertimeline/pkg/normalize"
)

// Header keyword sets for the two inventory exports. Both routinely
// arrive with title and timestamp rows above the real header.
var (
	userListKeywords  = []string{"email", "name", "user", "sign", "status", "product", "license"}
	assetListKeywords = []string{"device", "computer", "asset", "user", "model", "serial", "operating", "os"}
)

// UserListOptions returns the reader options for a user list export.
func UserListOptions() Options {
	return Options{HeaderKeywords: userListKeywords}
}

// AssetListOptions returns the reader options for an asset list export.
func AssetListOptions() Options {
	return Options{HeaderKeywords: assetListKeywords}
}

// ReadEDRReport maps an EDR export's rows to enrichment records. Rows
// with neither a serial nor a device name are dropped.
func ReadEDRReport(path string) ([]enrich.EDRRecord, []Warning, error) {
	t, err := ReadFile(path, Options{HeaderKeywords: []string{"serial", "device", "computer", "alert", "incident", "status"}})
	if err != nil {
		return nil, nil, err
	}

	var records []enrich.EDRRecord
	for _, row := range t.Rows {
		r := lowered(row)
		rec := enrich.EDRRecord{
			Serial:     r.first("serial number", "serial"),
			DeviceName: r.first("device name", "computer name", "device"),
			Alerts:     r.count("alerts", "alert count"),
			Incidents:  r.count("incidents", "incident count"),
		}
		if rec.Serial == "" && rec.DeviceName == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, t.Warnings, nil
}

// ReadBackupReport maps a backup health export's rows to enrichment
// records.
func ReadBackupReport(path string) ([]enrich.BackupRecord, []Warning, error) {
	t, err := ReadFile(path, Options{HeaderKeywords: []string{"serial", "device", "computer", "status", "backup", "last"}})
	if err != nil {
		return nil, nil, err
	}

	var records []enrich.BackupRecord
	for _, row := range t.Rows {
		r := lowered(row)
		rec := enrich.BackupRecord{
			Serial:      r.first("serial number", "serial"),
			DeviceName:  r.first("device name", "computer name", "device"),
			Status:      r.first("status", "backup status"),
			LastSuccess: r.first("last successful backup", "last success", "last backup"),
		}
		if rec.Serial == "" && rec.DeviceName == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, t.Warnings, nil
}

// ReadPhishingReport maps a phishing simulation export's rows to
// enrichment records. A row without an explicit sent count still
// represents one delivered simulation.
func ReadPhishingReport(path string) ([]enrich.PhishingRecord, []Warning, error) {
	t, err := ReadFile(path, Options{HeaderKeywords: []string{"email", "user", "sent", "click", "campaign"}})
	if err != nil {
		return nil, nil, err
	}

	var records []enrich.PhishingRecord
	for _, row := range t.Rows {
		r := lowered(row)
		rec := enrich.PhishingRecord{
			Email:   r.first("email", "email address", "user"),
			Sent:    r.count("emails sent", "sent"),
			Clicked: r.count("clicked", "clicks"),
		}
		if rec.Email == "" {
			continue
		}
		if rec.Sent == 0 {
			rec.Sent = 1
		}
		records = append(records, rec)
	}
	return records, t.Warnings, nil
}

// ReadDarkWebReport maps a dark-web monitoring export's rows to
// enrichment records.
func ReadDarkWebReport(path string) ([]enrich.DarkWebRecord, []Warning, error) {
	t, err := ReadFile(path, Options{HeaderKeywords: []string{"email", "user", "source", "breach", "severity"}})
	if err != nil {
		return nil, nil, err
	}

	var records []enrich.DarkWebRecord
	for _, row := range t.Rows {
		r := lowered(row)
		rec := enrich.DarkWebRecord{
			Email:    r.first("email", "email address", "user"),
			Source:   r.first("breach source", "source"),
			Severity: r.first("severity"),
		}
		if rec.Email == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, t.Warnings, nil
}

// loweredRow indexes a row by lowercased header for the report
// readers, whose synonym sets are all lowercase.
type loweredRow map[string]string

func lowered(row normalize.Row) loweredRow {
	out := make(loweredRow, len(row))
	for k, v := range row {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func (r loweredRow) first(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r[name]); v != "" {
			return v
		}
	}
	return ""
}

func (r loweredRow) count(names ...string) int {
	n, err := strconv.Atoi(r.first(names...))
	if err != nil {
		return 0
	}
	return n
}
