package entity

import (
	"fmt"
	"strings"
)

// IdentityKind discriminates the two asset identity spaces. Serial-based
// identity is preferred because it survives device renames; name-based
// identity is the fallback when a serial was never reported.
type IdentityKind int

const (
	// SerialIdentity keys an asset by its hardware serial number.
	SerialIdentity IdentityKind = iota
	// NameIdentity keys an asset by its device name.
	NameIdentity
)

const (
	serialPrefix = "SN:"
	namePrefix   = "DN:"
)

// AssetID is the canonical asset identity: a tagged value rather than a
// bare prefixed string, so the serial/name distinction never has to be
// re-derived by string parsing.
type AssetID struct {
	Kind  IdentityKind
	Value string
}

// SerialID builds a serial-based identity. The serial must already be
// normalized (upper-cased, trimmed).
func SerialID(serial string) AssetID {
	return AssetID{Kind: SerialIdentity, Value: serial}
}

// NameID builds a device-name-based identity. The name must already be
// normalized (upper-cased, trimmed).
func NameID(name string) AssetID {
	return AssetID{Kind: NameIdentity, Value: name}
}

// ParseAssetID parses the string form produced by String.
func ParseAssetID(s string) (AssetID, error) {
	switch {
	case strings.HasPrefix(s, serialPrefix):
		return SerialID(s[len(serialPrefix):]), nil
	case strings.HasPrefix(s, namePrefix):
		return NameID(s[len(namePrefix):]), nil
	default:
		return AssetID{}, fmt.Errorf("asset id %q has no SN:/DN: prefix", s)
	}
}

// String renders the identity in its snapshot-key form: "SN:<serial>"
// or "DN:<name>".
func (id AssetID) String() string {
	if id.Kind == SerialIdentity {
		return serialPrefix + id.Value
	}
	return namePrefix + id.Value
}

// IsZero reports whether the identity is empty.
func (id AssetID) IsZero() bool { return id.Value == "" }

// Less orders identities by their snapshot-key form, which is the
// lexicographic order diff output is sorted in.
func (id AssetID) Less(other AssetID) bool {
	return id.String() < other.String()
}
