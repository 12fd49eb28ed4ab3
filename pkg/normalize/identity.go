package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail canonicalizes an email for use as an identity key:
// trim, lower-case, Unicode NFKC fold, then domain-alias substitution.
// Returns "" for values that cannot be an email (no "@").
func NormalizeEmail(raw string, domainAliases map[string]string) string {
	// Directory exports sometimes carry DOMAIN\user@host values; keep
	// only the part after the last backslash.
	if i := strings.LastIndex(raw, `\`); i >= 0 {
		raw = raw[i+1:]
	}
	email := norm.NFKC.String(strings.ToLower(strings.TrimSpace(raw)))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	if domain, ok := domainAliases[email[at+1:]]; ok {
		email = email[:at+1] + domain
	}
	return email
}

// NormalizeSerial canonicalizes a hardware serial: trim and upper-case.
func NormalizeSerial(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeDeviceName canonicalizes a device name: trim and upper-case.
func NormalizeDeviceName(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
