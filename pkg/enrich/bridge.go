package enrich

import (
	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/normalize"
)

// Bridge resolves enrichment record keys (serial or device name) to
// the asset identity keys used in a snapshot. Device names are not
// unique across serials, so one name can fan out to several assets;
// enrichment then applies to all of them.
type Bridge struct {
	bySerial map[string]string
	byName   map[string][]string
}

// NewBridge indexes a snapshot for identity resolution.
func NewBridge(snap *entity.AssetSnapshot) *Bridge {
	b := &Bridge{
		bySerial: make(map[string]string),
		byName:   make(map[string][]string),
	}
	for key, a := range snap.Assets {
		if a.SerialNumber != "" {
			b.bySerial[a.SerialNumber] = key
		}
		if a.DeviceName != "" {
			b.byName[a.DeviceName] = append(b.byName[a.DeviceName], key)
		}
	}
	return b
}

// Resolve returns the snapshot keys a record addresses: the serial
// match when a serial is given, otherwise every asset sharing the
// device name. An empty result means the record references something
// outside the snapshot and should be dropped.
func (b *Bridge) Resolve(serial, deviceName string) []string {
	if s := normalize.NormalizeSerial(serial); s != "" {
		if key, ok := b.bySerial[s]; ok {
			return []string{key}
		}
		return nil
	}
	if n := normalize.NormalizeDeviceName(deviceName); n != "" {
		return b.byName[n]
	}
	return nil
}
