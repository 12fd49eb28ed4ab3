package enrich

import (
	"time"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/normalize"
)

// ApplyPhishing merges phishing simulation results into the user
// snapshot's risk_signals namespace and marks covered users'
// phishing_training service flag. Users the campaign never targeted
// get zeroed counters and an unknown risk rating.
func ApplyPhishing(snap *entity.UserSnapshot, records []PhishingRecord, domainAliases map[string]string) {
	byEmail := make(map[string]PhishingRecord)
	for _, rec := range records {
		email := normalize.NormalizeEmail(rec.Email, domainAliases)
		if email == "" {
			continue
		}
		byEmail[email] = rec
	}

	for email, u := range snap.Users {
		rec, ok := byEmail[email]
		if !ok {
			u.RiskSignals.PhishingClicked = false
			u.RiskSignals.PhishingFailures = 0
			u.RiskSignals.PhishingCampaigns = 0
			u.RiskSignals.PhishingRisk = RiskUnknown
			continue
		}
		u.Services.PhishingTraining = true
		u.RiskSignals.PhishingClicked = rec.Clicked > 0
		u.RiskSignals.PhishingFailures = rec.Clicked
		u.RiskSignals.PhishingCampaigns = rec.Sent
		if rec.Clicked > 0 {
			u.RiskSignals.PhishingRisk = RiskHigh
		} else {
			u.RiskSignals.PhishingRisk = RiskLow
		}
	}

	snap.Metadata.PhishingEnrichedAt = time.Now().UTC()
}

// ApplyDarkWeb merges credential exposure findings into the user
// snapshot's risk_signals namespace and marks covered users'
// dark_web_monitoring service flag. Users with no finding get an
// explicit not-exposed state.
func ApplyDarkWeb(snap *entity.UserSnapshot, records []DarkWebRecord, domainAliases map[string]string) {
	byEmail := make(map[string]DarkWebRecord)
	for _, rec := range records {
		email := normalize.NormalizeEmail(rec.Email, domainAliases)
		if email == "" {
			continue
		}
		byEmail[email] = rec
	}

	for email, u := range snap.Users {
		rec, ok := byEmail[email]
		if !ok {
			u.RiskSignals.DarkWebExposed = false
			u.RiskSignals.DarkWebSource = ""
			u.RiskSignals.DarkWebSeverity = "none"
			continue
		}
		u.Services.DarkWebMonitoring = true
		u.RiskSignals.DarkWebExposed = true
		u.RiskSignals.DarkWebSource = rec.Source
		u.RiskSignals.DarkWebSeverity = CanonicalSeverity(rec.Severity)
	}

	snap.Metadata.DarkWebEnrichedAt = time.Now().UTC()
}
