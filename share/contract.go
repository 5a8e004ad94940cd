// Package share implements the protocol coordinator: the approved build
// registry, fee configuration, pay-per-access and pay-per-license
// orchestration, audit records and the fee treasury.
//
// Coordinator methods take a ledger frame bound to the coordinator address.
// Client wraps them in ledger transactions and records metrics.
package share

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/bitfsorg/libshare-go/asset"
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/fee"
	"github.com/bitfsorg/libshare-go/ledger"
)

var log = logging.Logger("share")

var coordinatorCode = []byte("share/coordinator/v1")

const (
	fieldOwner          = "owner"
	fieldFeeNumerator   = "feeNumerator"
	fieldFeeDenominator = "feeDenominator"
	fieldVerification   = "codeVerification"
	fieldTxCount        = "transactionCount"
	fieldTxVolume       = "transactionVolume"
	fieldBuildIndex     = "builds"

	prefixBuild   = "build/"
	prefixGrant   = "grant/"
	prefixLicense = "license/"
)

// Event names emitted by the coordinator.
const (
	EventAccess           = "Access"
	EventPayment          = "Payment"
	EventLicense          = "License"
	EventWithdraw         = "Withdraw"
	EventApprovedBuild    = "ApprovedBuild"
	EventTransactionFee   = "TransactionFee"
	EventCodeVerification = "CodeVerification"
)

// Asset is the interface the coordinator consumes from asset builds.
// Every method takes a frame bound to the asset address.
type Asset interface {
	ledger.Contract
	PricePerAccess(tx *ledger.Tx, tokenID uint64) (uint64, error)
	PricePerLicense(tx *ledger.Tx) (uint64, error)
	SupportsLicensing(tx *ledger.Tx) (bool, error)
	Owner(tx *ledger.Tx) (ledger.Address, error)
	Distributor(tx *ledger.Tx) (asset.Distributor, bool, error)
	Grant(tx *ledger.Tx, recipient ledger.Address, tokenID uint64) error
	License(tx *ledger.Tx, licensee ledger.Address) error
}

// Collection is an Asset with a fixed membership.
type Collection interface {
	Asset
	Includes(tx *ledger.Tx, member ledger.Address) (bool, error)
}

var (
	_ Asset      = asset.Unit{}
	_ Collection = asset.Collection{}
)

// Coordinator is the protocol contract. Value reaches it only as payment for
// Access or License; it keeps the fee portion until withdrawn.
type Coordinator struct{}

// Code implements ledger.Contract.
func (Coordinator) Code() []byte { return coordinatorCode }

func construct(feeCfg fee.Config, verify bool) func(tx *ledger.Tx) error {
	return func(tx *ledger.Tx) error {
		if err := feeCfg.Validate(); err != nil {
			return err
		}
		tx.PutAddr(fieldOwner, tx.Caller())
		tx.PutUint64(fieldFeeNumerator, feeCfg.Numerator)
		tx.PutUint64(fieldFeeDenominator, feeCfg.Denominator)
		tx.PutBool(fieldVerification, verify)
		return nil
	}
}

// Owner returns the coordinator owner.
func (Coordinator) Owner(tx *ledger.Tx) (ledger.Address, error) {
	return tx.Addr(fieldOwner)
}

func onlyOwner(tx *ledger.Tx) error {
	owner, err := tx.Addr(fieldOwner)
	if err != nil {
		return err
	}
	if tx.Caller() != owner {
		return fault.Wrapf(fault.ErrUnauthorized, "%s is not the coordinator owner", tx.Caller())
	}
	return nil
}

func resolveAsset(tx *ledger.Tx, addr ledger.Address) (Asset, error) {
	impl, err := tx.Contract(addr)
	if err != nil {
		return nil, fault.Wrapf(fault.ErrNotAnAsset, "%s: %v", addr, err)
	}
	a, ok := impl.(Asset)
	if !ok {
		return nil, fault.Wrapf(fault.ErrNotAnAsset, "%s", addr)
	}
	return a, nil
}

func pairField(prefix string, a, b ledger.Address) string {
	return prefix + a.Hex() + "/" + b.Hex()
}
