package share

import (
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

// AddApprovedBuild inserts one build into the trust set. Owner only.
// Re-adding an existing (hash, type) pair is a no-op.
func (c Coordinator) AddApprovedBuild(tx *ledger.Tx, b ApprovedBuild) error {
	return c.AddApprovedBuilds(tx, []BuildKey{b.Key()}, b.CompilerTarget, b.CompilerVersion, b.Author)
}

// AddApprovedBuilds inserts every entry sharing the same compiler and author. Owner only.
// Either all entries are recorded or, on error, none are.
func (Coordinator) AddApprovedBuilds(tx *ledger.Tx, entries []BuildKey, compilerTarget, compilerVersion string, author ledger.Address) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	for _, e := range entries {
		if !e.BuildType.Valid() {
			return fault.Wrapf(fault.ErrInvalidBuildType, "%d", uint8(e.BuildType))
		}
	}

	var index []BuildKey
	if _, err := tx.Decode(fieldBuildIndex, &index); err != nil {
		return err
	}
	added := 0
	for _, e := range entries {
		ok, err := tx.Has(e.field())
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		b := ApprovedBuild{
			CodeHash:        e.CodeHash,
			BuildType:       e.BuildType,
			CompilerTarget:  compilerTarget,
			CompilerVersion: compilerVersion,
			Author:          author,
		}
		if err := tx.Encode(e.field(), b); err != nil {
			return err
		}
		index = append(index, e)
		added++
		tx.Emit(EventApprovedBuild, ledger.Attrs{}.
			S("codeHash", e.CodeHash.Hex()).
			S("buildType", e.BuildType.String()).
			S("compilerTarget", compilerTarget).
			S("compilerVersion", compilerVersion).
			A("author", author))
	}
	if added == 0 {
		return nil
	}
	log.Debugw("approved builds added", "count", added)
	return tx.Encode(fieldBuildIndex, index)
}

// IsApprovedBuildHash reports whether (codeHash, buildType) is in the trust set.
func (Coordinator) IsApprovedBuildHash(tx *ledger.Tx, codeHash ledger.Hash, t BuildType) (bool, error) {
	return tx.Has(BuildKey{CodeHash: codeHash, BuildType: t}.field())
}

// ApprovedBuild returns the metadata recorded for (codeHash, buildType).
func (Coordinator) ApprovedBuild(tx *ledger.Tx, codeHash ledger.Hash, t BuildType) (ApprovedBuild, bool, error) {
	var b ApprovedBuild
	ok, err := tx.Decode(BuildKey{CodeHash: codeHash, BuildType: t}.field(), &b)
	return b, ok, err
}

// ApprovedBuilds lists the trust set in insertion order.
func (c Coordinator) ApprovedBuilds(tx *ledger.Tx) ([]ApprovedBuild, error) {
	var index []BuildKey
	if _, err := tx.Decode(fieldBuildIndex, &index); err != nil {
		return nil, err
	}
	out := make([]ApprovedBuild, 0, len(index))
	for _, k := range index {
		b, _, err := c.ApprovedBuild(tx, k.CodeHash, k.BuildType)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// SetCodeVerificationEnabled toggles build verification for Access and License. Owner only.
func (Coordinator) SetCodeVerificationEnabled(tx *ledger.Tx, enabled bool) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	tx.PutBool(fieldVerification, enabled)
	tx.Emit(EventCodeVerification, ledger.Attrs{}.B("enabled", enabled))
	log.Infow("code verification toggled", "enabled", enabled)
	return nil
}

// CodeVerificationEnabled reports whether build verification is enforced.
func (Coordinator) CodeVerificationEnabled(tx *ledger.Tx) (bool, error) {
	return tx.Bool(fieldVerification)
}

// verifyBuild requires the code at addr to be approved under one of types,
// unless verification is disabled.
func (c Coordinator) verifyBuild(tx *ledger.Tx, addr ledger.Address, types ...BuildType) error {
	enabled, err := c.CodeVerificationEnabled(tx)
	if err != nil || !enabled {
		return err
	}
	h, err := tx.CodeHash(addr)
	if err != nil {
		return err
	}
	for _, t := range types {
		ok, err := c.IsApprovedBuildHash(tx, h, t)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fault.Wrapf(fault.ErrNonApprovedBuild, "%s code %s", addr, h.Hex())
}
