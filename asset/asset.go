// Package asset implements the licensable content builds consumed by the
// coordinator: single units and collections of units.
//
// Builds are stateless Go code operating on the storage of the address a
// ledger frame is bound to. Grant and license entry points accept calls
// only from the coordinator recorded at initialization.
package asset

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

var log = logging.Logger("asset")

const (
	fieldOwner        = "owner"
	fieldInitialized  = "initialized"
	fieldURI          = "uri"
	fieldPrice        = "pricePerAccess"
	fieldGrantTTL     = "grantTTL"
	fieldLicensing    = "supportsLicensing"
	fieldLicensePrice = "pricePerLicense"
	fieldCoordinator  = "coordinator"
	fieldDistributor  = "distributor"
	fieldMembers      = "members"

	prefixGrant   = "grant/"
	prefixLicense = "license/"
	prefixMember  = "member/"
)

// Event names emitted by asset builds.
const (
	EventInitialized          = "Initialized"
	EventGrant                = "Grant"
	EventLicense              = "License"
	EventDistributor          = "Distributor"
	EventOwnershipTransferred = "OwnershipTransferred"
)

// Params configures an asset at initialization.
type Params struct {
	MetadataURI       string
	PricePerAccess    uint64
	GrantTTL          uint64 // seconds
	SupportsLicensing bool
	PricePerLicense   uint64
	Coordinator       ledger.Address
}

// Distributor is the optional secondary payee of an asset.
type Distributor struct {
	Address     ledger.Address
	Numerator   uint64
	Denominator uint64
}

// Pricer is implemented by every asset build.
type Pricer interface {
	PricePerAccess(tx *ledger.Tx, tokenID uint64) (uint64, error)
}

// construct records the deployer as owner.
func construct(tx *ledger.Tx) error {
	tx.PutAddr(fieldOwner, tx.Caller())
	return nil
}

func onlyOwner(tx *ledger.Tx) error {
	owner, err := tx.Addr(fieldOwner)
	if err != nil {
		return err
	}
	if tx.Caller() != owner {
		return fault.Wrapf(fault.ErrUnauthorized, "%s is not the asset owner", tx.Caller())
	}
	return nil
}

func requireInitialized(tx *ledger.Tx) error {
	ok, err := tx.Bool(fieldInitialized)
	if err != nil {
		return err
	}
	if !ok {
		return fault.Wrapf(fault.ErrNotInitialized, "asset %s", tx.Self())
	}
	return nil
}

func onlyCoordinator(tx *ledger.Tx) error {
	if err := requireInitialized(tx); err != nil {
		return err
	}
	coord, err := tx.Addr(fieldCoordinator)
	if err != nil {
		return err
	}
	if tx.Caller() != coord {
		return fault.Wrapf(fault.ErrCallerNotCoordinator, "%s", tx.Caller())
	}
	return nil
}

func storeParams(tx *ledger.Tx, p Params) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	done, err := tx.Bool(fieldInitialized)
	if err != nil {
		return err
	}
	if done {
		return fault.Wrapf(fault.ErrAlreadyInitialized, "asset %s", tx.Self())
	}
	tx.PutBool(fieldInitialized, true)
	tx.PutText(fieldURI, p.MetadataURI)
	tx.PutUint64(fieldPrice, p.PricePerAccess)
	tx.PutUint64(fieldGrantTTL, p.GrantTTL)
	tx.PutBool(fieldLicensing, p.SupportsLicensing)
	tx.PutUint64(fieldLicensePrice, p.PricePerLicense)
	tx.PutAddr(fieldCoordinator, p.Coordinator)
	tx.Emit(EventInitialized, ledger.Attrs{}.
		S("uri", p.MetadataURI).
		U("pricePerAccess", p.PricePerAccess).
		U("pricePerLicense", p.PricePerLicense).
		A("coordinator", p.Coordinator))
	return nil
}

func recordKey(prefix string, a ledger.Address) string { return prefix + a.Hex() }
