package diff

import (
	"reflect"
	"testing"
	"time"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/jsonutil"
)

func userSnap(month entity.Month, users map[string]*entity.User) *entity.UserSnapshot {
	return &entity.UserSnapshot{
		Metadata: entity.Metadata{Month: month},
		Users:    users,
	}
}

func assetSnap(month entity.Month, assets map[string]*entity.Asset) *entity.AssetSnapshot {
	return &entity.AssetSnapshot{
		Metadata: entity.Metadata{Month: month},
		Assets:   assets,
	}
}

func TestComputeUserTransitions(t *testing.T) {
	t.Parallel()

	prev := userSnap("2026-07", map[string]*entity.User{
		"alice@corp.com": {Name: "Alice"},
		"bob@corp.com":   {Name: "Bob"},
	})
	curr := userSnap("2026-08", map[string]*entity.User{
		"alice@corp.com": {Name: "Alice"},
		"carol@corp.com": {Name: "Carol"},
	})

	d := Compute(prev, curr, assetSnap("2026-07", emptyAssets()), assetSnap("2026-08", emptyAssets()))

	if !reflect.DeepEqual(d.Users.New, []string{"carol@corp.com"}) {
		t.Errorf("new users = %v", d.Users.New)
	}
	if !reflect.DeepEqual(d.Users.Resigned, []string{"bob@corp.com"}) {
		t.Errorf("resigned users = %v", d.Users.Resigned)
	}
	if d.Metrics.UserCountChange != 0 {
		t.Errorf("user count change = %d", d.Metrics.UserCountChange)
	}
	if d.Metadata.FromMonth != "2026-07" || d.Metadata.ToMonth != "2026-08" {
		t.Errorf("metadata months = %s -> %s", d.Metadata.FromMonth, d.Metadata.ToMonth)
	}
}

func TestComputeServiceChanges(t *testing.T) {
	t.Parallel()

	prev := userSnap("2026-07", map[string]*entity.User{
		"alice@corp.com": {Name: "Alice", Services: entity.Services{M365: true, EDR: true}},
	})
	curr := userSnap("2026-08", map[string]*entity.User{
		"alice@corp.com": {Name: "Alice", Services: entity.Services{M365: true, Backup: true, PhishingTraining: true}},
	})

	d := Compute(prev, curr, assetSnap("2026-07", emptyAssets()), assetSnap("2026-08", emptyAssets()))

	change, ok := d.Users.ServiceChanges["alice@corp.com"]
	if !ok {
		t.Fatal("no service change recorded for alice")
	}
	if !reflect.DeepEqual(change.Added, []string{"backup", "phishing_training"}) {
		t.Errorf("added = %v", change.Added)
	}
	if !reflect.DeepEqual(change.Removed, []string{"edr"}) {
		t.Errorf("removed = %v", change.Removed)
	}

	// Unchanged flags must not show up at all.
	if len(d.Users.ServiceChanges) != 1 {
		t.Errorf("service changes = %v", d.Users.ServiceChanges)
	}
}

func TestComputeAssetTransitions(t *testing.T) {
	t.Parallel()

	prev := assetSnap("2026-07", map[string]*entity.Asset{
		"SN:OLD111": {SerialNumber: "OLD111", DeviceName: "LAPTOP-01", AssignedUser: "alice@corp.com", Status: entity.AssetActive},
		"SN:KEEP22": {SerialNumber: "KEEP22", DeviceName: "LAPTOP-02", AssignedUser: "bob@corp.com", Status: entity.AssetActive},
	})
	curr := assetSnap("2026-08", map[string]*entity.Asset{
		"SN:KEEP22": {SerialNumber: "KEEP22", DeviceName: "LAPTOP-02", AssignedUser: "carol@corp.com", Status: entity.AssetActive},
		"SN:NEW333": {SerialNumber: "NEW333", DeviceName: "LAPTOP-03", AssignedUser: "carol@corp.com", Status: entity.AssetActive},
	})

	d := Compute(userSnap("2026-07", emptyUsers()), userSnap("2026-08", emptyUsers()), prev, curr)

	if !reflect.DeepEqual(d.Assets.New, []string{"SN:NEW333"}) {
		t.Errorf("new devices = %v", d.Assets.New)
	}
	if !reflect.DeepEqual(d.Assets.Retired, []string{"SN:OLD111"}) {
		t.Errorf("retired devices = %v", d.Assets.Retired)
	}
	oc, ok := d.Assets.OwnershipChanges["SN:KEEP22"]
	if !ok {
		t.Fatal("ownership change not recorded")
	}
	if oc.From != "bob@corp.com" || oc.To != "carol@corp.com" {
		t.Errorf("ownership change = %+v", oc)
	}
}

// Mixed serial- and name-keyed devices sort through the parsed
// identity: name-based keys group before serial-based ones.
func TestAssetKeyOrdering(t *testing.T) {
	t.Parallel()

	curr := assetSnap("2026-08", map[string]*entity.Asset{
		"SN:B2":        {SerialNumber: "B2", Status: entity.AssetActive, AssignedUser: "a@x.com"},
		"DN:ZED-BOX":   {DeviceName: "ZED-BOX", Status: entity.AssetActive, AssignedUser: "a@x.com"},
		"SN:A1":        {SerialNumber: "A1", Status: entity.AssetActive, AssignedUser: "a@x.com"},
		"DN:ALPHA-BOX": {DeviceName: "ALPHA-BOX", Status: entity.AssetActive, AssignedUser: "a@x.com"},
	})

	d := Compute(userSnap("2026-07", emptyUsers()), userSnap("2026-08", emptyUsers()),
		assetSnap("2026-07", emptyAssets()), curr)

	want := []string{"DN:ALPHA-BOX", "DN:ZED-BOX", "SN:A1", "SN:B2"}
	if !reflect.DeepEqual(d.Assets.New, want) {
		t.Errorf("new devices = %v, want %v", d.Assets.New, want)
	}
}

func TestDeriveAlerts(t *testing.T) {
	t.Parallel()

	prevUsers := userSnap("2026-07", map[string]*entity.User{
		"bob@corp.com": {Name: "Bob"},
	})
	currUsers := userSnap("2026-08", emptyUsers())
	assets := assetSnap("2026-08", map[string]*entity.Asset{
		"SN:ABC123": {SerialNumber: "ABC123", Status: entity.AssetActive},
		"SN:BOB999": {SerialNumber: "BOB999", DeviceName: "LAPTOP-07", AssignedUser: "bob@corp.com", Status: entity.AssetActive},
		"SN:RET000": {SerialNumber: "RET000", Status: entity.AssetRetired},
	})

	d := Compute(prevUsers, currUsers, assetSnap("2026-07", emptyAssets()), assets)

	var orphaned, resignedDevice *Alert
	for i := range d.Alerts {
		switch d.Alerts[i].Type {
		case AlertOrphanedDevice:
			orphaned = &d.Alerts[i]
		case AlertResignedUserDevice:
			resignedDevice = &d.Alerts[i]
		}
	}

	if orphaned == nil {
		t.Fatal("no orphaned_device alert")
	}
	if orphaned.Severity != SeverityHigh || orphaned.Identity != "SN:ABC123" {
		t.Errorf("orphaned alert = %+v", orphaned)
	}
	// Alert text names the device, not the identity key.
	if want := "Device ABC123 has no assigned user"; orphaned.Message != want {
		t.Errorf("orphaned message = %q", orphaned.Message)
	}

	if resignedDevice == nil {
		t.Fatal("no resigned_user_device alert")
	}
	if resignedDevice.Severity != SeverityCritical || resignedDevice.Identity != "SN:BOB999" {
		t.Errorf("resigned device alert = %+v", resignedDevice)
	}

	// A retired unassigned device is not an orphan.
	for _, a := range d.Alerts {
		if a.Identity == "SN:RET000" {
			t.Errorf("retired device produced alert %+v", a)
		}
	}
}

func TestEmptyDiffSentinel(t *testing.T) {
	t.Parallel()

	d := Empty("2026-08")

	if d.Metadata.FromMonth != "" || d.Metadata.ToMonth != "2026-08" {
		t.Errorf("metadata = %+v", d.Metadata)
	}
	// Slices and maps are initialized so the JSON form has [] and {}
	// rather than null.
	if d.Users.New == nil || d.Users.Resigned == nil || d.Users.ServiceChanges == nil {
		t.Error("user fields not initialized")
	}
	if d.Assets.New == nil || d.Assets.Retired == nil || d.Assets.OwnershipChanges == nil {
		t.Error("asset fields not initialized")
	}
	if d.Alerts == nil {
		t.Error("alerts not initialized")
	}
}

// Every user gains a service and every device changes hands, so the
// marshaled diff carries multi-key service_changes and
// ownership_changes objects. Their key order must not vary between
// runs any more than the sorted lists do.
func TestComputeDeterministic(t *testing.T) {
	t.Parallel()

	emails := []string{"c@x.com", "a@x.com", "b@x.com", "e@x.com", "d@x.com", "h@x.com", "f@x.com", "g@x.com"}
	serials := []string{"Z9", "A1", "M5", "B2", "Q7", "K3"}

	prevUsers := map[string]*entity.User{}
	currUsers := map[string]*entity.User{}
	for _, email := range emails {
		prevUsers[email] = &entity.User{Name: email, Services: entity.Services{M365: true}}
		currUsers[email] = &entity.User{Name: email, Services: entity.Services{M365: true, EDR: true}}
	}
	currUsers["new@x.com"] = &entity.User{Name: "new@x.com"}

	prevAssets := map[string]*entity.Asset{}
	currAssets := map[string]*entity.Asset{}
	for i, sn := range serials {
		prevAssets["SN:"+sn] = &entity.Asset{SerialNumber: sn, Status: entity.AssetActive, AssignedUser: emails[i]}
		currAssets["SN:"+sn] = &entity.Asset{SerialNumber: sn, Status: entity.AssetActive, AssignedUser: emails[i+1]}
	}

	prevU := userSnap("2026-07", prevUsers)
	prevA := assetSnap("2026-07", prevAssets)

	fixed := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	var first []byte
	for i := 0; i < 20; i++ {
		d := Compute(prevU, userSnap("2026-08", currUsers), prevA, assetSnap("2026-08", currAssets))
		d.Metadata.GeneratedAt = fixed

		if len(d.Users.ServiceChanges) != len(emails) {
			t.Fatalf("service changes = %d, want %d", len(d.Users.ServiceChanges), len(emails))
		}
		if len(d.Assets.OwnershipChanges) != len(serials) {
			t.Fatalf("ownership changes = %d, want %d", len(d.Assets.OwnershipChanges), len(serials))
		}

		data, err := jsonutil.MarshalIndent(d, "", "  ")
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = data
			continue
		}
		if string(data) != string(first) {
			t.Fatal("diff output varies between runs on identical input")
		}
	}
}

func emptyUsers() map[string]*entity.User   { return map[string]*entity.User{} }
func emptyAssets() map[string]*entity.Asset { return map[string]*entity.Asset{} }
