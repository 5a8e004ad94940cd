package share

import "github.com/bitfsorg/libshare-go/ledger"

// TreasuryBalance returns the fees held by the coordinator.
func (Coordinator) TreasuryBalance(tx *ledger.Tx) (uint64, error) {
	return tx.Balance(tx.Self())
}

// Withdraw sends the whole treasury to the owner. Owner only.
func (c Coordinator) Withdraw(tx *ledger.Tx) (uint64, error) {
	if err := onlyOwner(tx); err != nil {
		return 0, err
	}
	amount, err := c.TreasuryBalance(tx)
	if err != nil {
		return 0, err
	}
	if err := tx.Transfer(tx.Caller(), amount); err != nil {
		return 0, err
	}
	tx.Emit(EventWithdraw, ledger.Attrs{}.A("recipient", tx.Caller()).U("value", amount))
	return amount, nil
}
