package asset

import (
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

var unitCode = []byte("share/asset/pfa-unit/v1")

// Unit is a single pay-for-access asset.
type Unit struct{}

// Code implements ledger.Contract.
func (Unit) Code() []byte { return unitCode }

// Initialize stores p. Owner only, once.
func (Unit) Initialize(tx *ledger.Tx, p Params) error {
	if err := storeParams(tx, p); err != nil {
		return err
	}
	log.Debugw("unit initialized", "asset", tx.Self().String(), "price", p.PricePerAccess)
	return nil
}

// PricePerAccess returns the base access price. Every token of a unit shares it.
func (Unit) PricePerAccess(tx *ledger.Tx, _ uint64) (uint64, error) {
	if err := requireInitialized(tx); err != nil {
		return 0, err
	}
	return tx.Uint64(fieldPrice)
}

// PricePerLicense returns the base license price.
func (Unit) PricePerLicense(tx *ledger.Tx) (uint64, error) {
	if err := requireInitialized(tx); err != nil {
		return 0, err
	}
	return tx.Uint64(fieldLicensePrice)
}

// SupportsLicensing reports whether the asset may be licensed.
func (Unit) SupportsLicensing(tx *ledger.Tx) (bool, error) {
	return tx.Bool(fieldLicensing)
}

// GrantTTL returns how long an access grant stays valid, in seconds.
func (Unit) GrantTTL(tx *ledger.Tx) (uint64, error) {
	return tx.Uint64(fieldGrantTTL)
}

// LicenseTTL returns how long a license stays valid. It equals the grant TTL.
func (u Unit) LicenseTTL(tx *ledger.Tx) (uint64, error) {
	return u.GrantTTL(tx)
}

// TokenURI returns the metadata URI.
func (Unit) TokenURI(tx *ledger.Tx) (string, error) {
	return tx.Text(fieldURI)
}

// Coordinator returns the address allowed to call Grant and License.
func (Unit) Coordinator(tx *ledger.Tx) (ledger.Address, error) {
	return tx.Addr(fieldCoordinator)
}

// Owner returns the address that receives routed payments.
func (Unit) Owner(tx *ledger.Tx) (ledger.Address, error) {
	return tx.Addr(fieldOwner)
}

// TransferOwnership hands the asset to newOwner, which may be a distributor contract.
func (Unit) TransferOwnership(tx *ledger.Tx, newOwner ledger.Address) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	tx.PutAddr(fieldOwner, newOwner)
	tx.Emit(EventOwnershipTransferred, ledger.Attrs{}.
		A("previousOwner", tx.Caller()).
		A("newOwner", newOwner))
	return nil
}

// Distributor returns the configured distributor, if any.
func (Unit) Distributor(tx *ledger.Tx) (Distributor, bool, error) {
	var d Distributor
	ok, err := tx.Decode(fieldDistributor, &d)
	if err != nil || !ok {
		return Distributor{}, false, err
	}
	return d, !d.Address.IsZero(), nil
}

// SetDistributor configures the distributor. Owner only. A zero address clears it.
func (Unit) SetDistributor(tx *ledger.Tx, d Distributor) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	if d.Address.IsZero() {
		tx.Delete(fieldDistributor)
		tx.Emit(EventDistributor, ledger.Attrs{}.A("distributor", d.Address))
		return nil
	}
	if d.Denominator == 0 {
		return fault.ErrZeroDenominator
	}
	if d.Numerator > d.Denominator {
		return fault.Wrapf(fault.ErrInvalidDistribution, "%d/%d", d.Numerator, d.Denominator)
	}
	if err := tx.Encode(fieldDistributor, d); err != nil {
		return err
	}
	tx.Emit(EventDistributor, ledger.Attrs{}.
		A("distributor", d.Address).
		U("numerator", d.Numerator).
		U("denominator", d.Denominator))
	return nil
}

// Grant records that recipient paid for access to tokenID. Coordinator only.
func (Unit) Grant(tx *ledger.Tx, recipient ledger.Address, tokenID uint64) error {
	if err := onlyCoordinator(tx); err != nil {
		return err
	}
	tx.PutUint64(recordKey(prefixGrant, recipient), tx.Now())
	tx.Emit(EventGrant, ledger.Attrs{}.A("recipient", recipient).U("tokenId", tokenID))
	return nil
}

// License records that licensee may incorporate this asset. Coordinator only.
func (Unit) License(tx *ledger.Tx, licensee ledger.Address) error {
	if err := onlyCoordinator(tx); err != nil {
		return err
	}
	tx.PutUint64(recordKey(prefixLicense, licensee), tx.Now())
	tx.Emit(EventLicense, ledger.Attrs{}.A("recipient", licensee).A("licensee", licensee))
	return nil
}

// GrantTimestamp returns when recipient was last granted access, or zero.
func (Unit) GrantTimestamp(tx *ledger.Tx, recipient ledger.Address) (uint64, error) {
	return tx.Uint64(recordKey(prefixGrant, recipient))
}

// LicenseTimestamp returns when licensee was last licensed, or zero.
func (Unit) LicenseTimestamp(tx *ledger.Tx, licensee ledger.Address) (uint64, error) {
	return tx.Uint64(recordKey(prefixLicense, licensee))
}

// HasAccess reports whether recipient holds a grant younger than the grant TTL.
func (u Unit) HasAccess(tx *ledger.Tx, recipient ledger.Address) (bool, error) {
	ts, err := u.GrantTimestamp(tx, recipient)
	if err != nil {
		return false, err
	}
	ttl, err := u.GrantTTL(tx)
	if err != nil {
		return false, err
	}
	return live(ts, ttl, tx.Now()), nil
}

// IsLicensed reports whether licensee holds a license younger than the license TTL.
func (u Unit) IsLicensed(tx *ledger.Tx, licensee ledger.Address) (bool, error) {
	ts, err := u.LicenseTimestamp(tx, licensee)
	if err != nil {
		return false, err
	}
	ttl, err := u.LicenseTTL(tx)
	if err != nil {
		return false, err
	}
	return live(ts, ttl, tx.Now()), nil
}

func live(ts, ttl, now uint64) bool {
	if ts == 0 {
		return false
	}
	return now-ts < ttl
}
