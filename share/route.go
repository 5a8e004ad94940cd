package share

import (
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/fee"
	"github.com/bitfsorg/libshare-go/ledger"
)

// requirePayment enforces exact payment: both under- and overpayment are rejected.
func requirePayment(tx *ledger.Tx, gross uint64) error {
	if tx.Value() != gross {
		return fault.Wrapf(fault.ErrPaymentMismatch, "paid %d, gross price %d", tx.Value(), gross)
	}
	return nil
}

// route pays out a settled quote for the asset at addr. The owner receives the
// base price; a configured distributor takes its fraction of the fee portion;
// the rest of the fee stays with the coordinator.
func (c Coordinator) route(tx *ledger.Tx, addr ledger.Address, a Asset, q quote) error {
	at := tx.At(addr)
	owner, err := a.Owner(at)
	if err != nil {
		return err
	}
	dist, hasDist, err := a.Distributor(at)
	if err != nil {
		return err
	}

	if hasDist {
		cut, err := fee.Portion(q.feePortion(), dist.Numerator, dist.Denominator)
		if err != nil {
			return err
		}
		if cut > 0 {
			if err := c.verifyPayee(tx, dist.Address); err != nil {
				return err
			}
		}
		if err := c.pay(tx, dist.Address, cut); err != nil {
			return err
		}
	}
	if err := c.verifyPayee(tx, owner); err != nil {
		return err
	}
	return c.pay(tx, owner, q.base)
}

// verifyPayee requires a contract payee (owner or distributor) to be an approved split build.
// Plain accounts are always accepted.
func (c Coordinator) verifyPayee(tx *ledger.Tx, to ledger.Address) error {
	h, err := tx.CodeHash(to)
	if err != nil || h == ledger.EmptyCodeHash {
		return err
	}
	return c.verifyBuild(tx, to, BuildSplit)
}

func (Coordinator) pay(tx *ledger.Tx, to ledger.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := tx.Transfer(to, amount); err != nil {
		return err
	}
	tx.Emit(EventPayment, ledger.Attrs{}.
		A("from", tx.Caller()).
		A("recipient", to).
		U("value", amount))
	return nil
}
