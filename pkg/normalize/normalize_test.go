package normalize

import (
	"errors"
	"testing"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
)

func userRows(rows ...Row) []Row { return rows }

func TestUsersMissingEmailColumn(t *testing.T) {
	t.Parallel()

	rows := userRows(Row{"Display Name": "Alice", "Department": "Sales"})
	_, _, err := Users(rows, "2026-08", nil, Options{})

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
	if schemaErr.Field != FieldEmail {
		t.Errorf("SchemaError.Field = %q", schemaErr.Field)
	}
}

func TestUsersIdentityNormalization(t *testing.T) {
	t.Parallel()

	rows := userRows(
		Row{"Email Address": "  ALICE@Corp.COM ", "First Name": "Alice", "Last Name": "Ang", "Sign-in allowed": "Yes"},
		Row{"Email Address": `CORP\bob@old.com`, "Display Name": "Bob Boone", "Sign-in allowed": "No"},
	)
	snap, stats, err := Users(rows, "2026-08", nil, Options{
		DomainAliases: map[string]string{"old.com": "corp.com"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Accepted != 2 {
		t.Fatalf("accepted = %d, want 2", stats.Accepted)
	}

	alice, ok := snap.Users["alice@corp.com"]
	if !ok {
		t.Fatalf("alice@corp.com missing, have %v", keysOf(snap.Users))
	}
	if alice.Name != "Alice Ang" {
		t.Errorf("alice name = %q", alice.Name)
	}
	if alice.Status != entity.UserActive {
		t.Errorf("alice status = %q", alice.Status)
	}

	bob, ok := snap.Users["bob@corp.com"]
	if !ok {
		t.Fatal("domain alias not applied for bob@old.com")
	}
	if bob.Name != "Bob Boone" {
		t.Errorf("bob name = %q, want display name fallback", bob.Name)
	}
	if bob.Status != entity.UserInactive {
		t.Errorf("bob status = %q", bob.Status)
	}
}

func TestUsersSkipsAndCounts(t *testing.T) {
	t.Parallel()

	rows := userRows(
		Row{"Email": "alice@corp.com", "Name": "Alice First", "Sign-in allowed": "Yes"},
		Row{"Email": "alice@corp.com", "Name": "Alice Second", "Sign-in allowed": "No"},
		Row{"Email": "not-an-email", "Name": "Ghost"},
		Row{"Email": "", "Name": "Blank"},
	)
	snap, stats, err := Users(rows, "2026-08", nil, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Rows != 4 || stats.Accepted != 1 || stats.Duplicates != 1 || stats.NoIdentity != 2 {
		t.Errorf("stats = %+v", stats)
	}
	// First occurrence wins on duplicates.
	if got := snap.Users["alice@corp.com"].Name; got != "Alice First" {
		t.Errorf("duplicate resolution kept %q, want first occurrence", got)
	}
}

func TestUsersFirstSeenCarryForward(t *testing.T) {
	t.Parallel()

	prev := &entity.UserSnapshot{
		Metadata: entity.Metadata{Month: "2026-07"},
		Users: map[string]*entity.User{
			"alice@corp.com": {Name: "Alice", FirstSeen: "2026-01"},
		},
	}
	rows := userRows(
		Row{"Email": "alice@corp.com", "Name": "Alice"},
		Row{"Email": "carol@corp.com", "Name": "Carol"},
	)
	snap, _, err := Users(rows, "2026-08", prev, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if got := snap.Users["alice@corp.com"].FirstSeen; got != "2026-01" {
		t.Errorf("alice first_seen = %s, want carried 2026-01", got)
	}
	if got := snap.Users["carol@corp.com"].FirstSeen; got != "2026-08" {
		t.Errorf("carol first_seen = %s, want 2026-08", got)
	}
}

func TestUsersValidation(t *testing.T) {
	t.Parallel()

	var validationErr *ValidationError

	// Empty result set.
	_, _, err := Users(userRows(Row{"Email": "nope"}), "2026-08", nil, Options{})
	if !errors.As(err, &validationErr) {
		t.Errorf("empty set: err = %v, want *ValidationError", err)
	}

	// User with no resolvable name.
	_, _, err = Users(userRows(Row{"Email": "alice@corp.com"}), "2026-08", nil, Options{})
	if !errors.As(err, &validationErr) {
		t.Errorf("missing name: err = %v, want *ValidationError", err)
	}
}

func TestAssetsMissingIdentityColumns(t *testing.T) {
	t.Parallel()

	rows := []Row{{"Model": "Latitude", "Operating System": "Windows 11"}}
	_, _, err := Assets(rows, "2026-08", nil, Options{})

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
}

func TestAssetsSerialPreferredIdentity(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{"Device Name": "laptop-01", "Serial Number": "abc123", "Last User": "ALICE@corp.com", "Model": "Latitude"},
		{"Device Name": "laptop-02", "Serial Number": ""},
	}
	snap, stats, err := Assets(rows, "2026-08", nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Accepted != 2 {
		t.Fatalf("accepted = %d", stats.Accepted)
	}

	a, ok := snap.Assets["SN:ABC123"]
	if !ok {
		t.Fatalf("SN:ABC123 missing, have %v", keysOf(snap.Assets))
	}
	if a.DeviceName != "LAPTOP-01" {
		t.Errorf("device name = %q, want upper-cased", a.DeviceName)
	}
	if a.AssignedUser != "alice@corp.com" {
		t.Errorf("assigned user = %q", a.AssignedUser)
	}
	if a.Type != "workstation" || a.Status != entity.AssetActive {
		t.Errorf("type/status = %q/%q", a.Type, a.Status)
	}

	if _, ok := snap.Assets["DN:LAPTOP-02"]; !ok {
		t.Error("serial-less asset should key by device name")
	}
}

func TestAssetsRetirementCarryForward(t *testing.T) {
	t.Parallel()

	prev := &entity.AssetSnapshot{
		Metadata: entity.Metadata{Month: "2026-07"},
		Assets: map[string]*entity.Asset{
			"SN:ABC123": {DeviceName: "LAPTOP-01", SerialNumber: "ABC123", Status: entity.AssetActive, FirstSeen: "2026-02", LastSeen: "2026-07"},
			"SN:GONE99": {DeviceName: "LAPTOP-09", SerialNumber: "GONE99", AssignedUser: "bob@corp.com", Status: entity.AssetActive, FirstSeen: "2026-01", LastSeen: "2026-07"},
		},
	}
	rows := []Row{
		{"Device Name": "LAPTOP-01", "Serial Number": "ABC123"},
	}
	snap, _, err := Assets(rows, "2026-08", prev, Options{})
	if err != nil {
		t.Fatal(err)
	}

	kept := snap.Assets["SN:ABC123"]
	if kept.FirstSeen != "2026-02" || kept.LastSeen != "2026-08" {
		t.Errorf("kept asset first/last = %s/%s", kept.FirstSeen, kept.LastSeen)
	}

	retired, ok := snap.Assets["SN:GONE99"]
	if !ok {
		t.Fatal("missing asset was not carried forward")
	}
	if retired.Status != entity.AssetRetired {
		t.Errorf("carried asset status = %q", retired.Status)
	}
	// Everything except status stays frozen at last known values.
	if retired.LastSeen != "2026-07" || retired.FirstSeen != "2026-01" || retired.AssignedUser != "bob@corp.com" {
		t.Errorf("carried asset fields changed: %+v", retired)
	}
	// The previous snapshot itself must not be mutated.
	if prev.Assets["SN:GONE99"].Status != entity.AssetActive {
		t.Error("carry-forward mutated the previous snapshot")
	}
}

func TestAssetsDuplicateKeySkipped(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{"Device Name": "LAPTOP-01", "Serial Number": "ABC123", "Model": "First"},
		{"Device Name": "RENAMED-01", "Serial Number": "abc123", "Model": "Second"},
	}
	snap, stats, err := Assets(rows, "2026-08", nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Duplicates != 1 {
		t.Errorf("duplicates = %d", stats.Duplicates)
	}
	if got := snap.Assets["SN:ABC123"].Model; got != "First" {
		t.Errorf("duplicate resolution kept %q, want first occurrence", got)
	}
}

func keysOf[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
