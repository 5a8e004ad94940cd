package share

import (
	"math/bits"

	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

// Access sells the payer (tx.Caller) access to tokenID of assetAddr.
// tx.Value must equal the gross price exactly.
func (c Coordinator) Access(tx *ledger.Tx, assetAddr ledger.Address, tokenID uint64) error {
	if err := c.verifyBuild(tx, assetAddr, assetBuilds...); err != nil {
		return err
	}
	a, err := resolveAsset(tx, assetAddr)
	if err != nil {
		return err
	}
	base, err := a.PricePerAccess(tx.At(assetAddr), tokenID)
	if err != nil {
		return err
	}
	q, err := c.quote(tx, base)
	if err != nil {
		return err
	}
	if err := requirePayment(tx, q.gross); err != nil {
		return err
	}
	if err := c.route(tx, assetAddr, a, q); err != nil {
		return err
	}

	payer := tx.Caller()
	if err := a.Grant(tx.At(assetAddr), payer, tokenID); err != nil {
		return err
	}
	tx.PutUint64(pairField(prefixGrant, assetAddr, payer), tx.Now())
	if err := c.bumpCounters(tx, q.gross); err != nil {
		return err
	}

	tx.Emit(EventAccess, ledger.Attrs{}.
		A("from", payer).
		A("asset", assetAddr).
		U("tokenId", tokenID).
		U("value", q.gross))
	return nil
}

func (Coordinator) bumpCounters(tx *ledger.Tx, gross uint64) error {
	count, err := tx.Uint64(fieldTxCount)
	if err != nil {
		return err
	}
	volume, err := tx.Uint64(fieldTxVolume)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(volume, gross, 0)
	if carry != 0 {
		return fault.Wrapf(fault.ErrPriceOverflow, "transaction volume %d + %d", volume, gross)
	}
	tx.PutUint64(fieldTxCount, count+1)
	tx.PutUint64(fieldTxVolume, sum)
	return nil
}

// GrantTimestamp returns the coordinator-side record of recipient's last grant on assetAddr.
func (Coordinator) GrantTimestamp(tx *ledger.Tx, assetAddr, recipient ledger.Address) (uint64, error) {
	return tx.Uint64(pairField(prefixGrant, assetAddr, recipient))
}

// Counters is the cumulative access activity of the protocol.
type Counters struct {
	TransactionCount  uint64
	TransactionVolume uint64
}

// Counters returns the access counters.
func (Coordinator) Counters(tx *ledger.Tx) (Counters, error) {
	var c Counters
	var err error
	if c.TransactionCount, err = tx.Uint64(fieldTxCount); err != nil {
		return c, err
	}
	c.TransactionVolume, err = tx.Uint64(fieldTxVolume)
	return c, err
}
