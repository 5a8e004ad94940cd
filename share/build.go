package share

import (
	"fmt"

	"github.com/bitfsorg/libshare-go/ledger"
)

// BuildType categorizes an approved code fingerprint.
type BuildType uint8

const (
	BuildWallet BuildType = iota
	BuildSplit
	BuildAssetUnit
	BuildCollection
)

var buildTypeNames = [...]string{"WALLET", "SPLIT", "PFA_UNIT", "COLLECTION"}

// Valid reports whether t is a known build type.
func (t BuildType) Valid() bool { return int(t) < len(buildTypeNames) }

// String implements fmt.Stringer.
func (t BuildType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("BuildType(%d)", uint8(t))
	}
	return buildTypeNames[t]
}

// ParseBuildType accepts the canonical name or the numeric value.
func ParseBuildType(s string) (BuildType, error) {
	for i, name := range buildTypeNames {
		if s == name || s == fmt.Sprint(i) {
			return BuildType(i), nil
		}
	}
	return 0, fmt.Errorf("share: unknown build type %q", s)
}

// BuildKey identifies an entry in the approved build set.
type BuildKey struct {
	CodeHash  ledger.Hash
	BuildType BuildType
}

func (k BuildKey) field() string {
	return fmt.Sprintf("%s%x/%d", prefixBuild, k.CodeHash[:], uint8(k.BuildType))
}

// ApprovedBuild is the metadata recorded for a trusted code fingerprint.
type ApprovedBuild struct {
	CodeHash        ledger.Hash
	BuildType       BuildType
	CompilerTarget  string
	CompilerVersion string
	Author          ledger.Address
}

// Key returns the set key of b.
func (b ApprovedBuild) Key() BuildKey {
	return BuildKey{CodeHash: b.CodeHash, BuildType: b.BuildType}
}

// assetBuilds are the build types accepted as access or license targets.
var assetBuilds = []BuildType{BuildAssetUnit, BuildCollection}
