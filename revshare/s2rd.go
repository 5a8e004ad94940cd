// Package revshare implements sequential revenue distribution (S2RD): each
// incoming payment is forwarded whole to one recipient of a fixed rotation.
package revshare

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

var log = logging.Logger("revshare")

var s2rdCode = []byte("share/split/s2rd/v1")

const (
	fieldDeployer    = "deployer"
	fieldInitialized = "initialized"
	fieldRecipients  = "recipients"
	fieldCursor      = "cursor"
	fieldCoordinator = "coordinator"
)

// EventPayment is emitted for every forwarded payment.
const EventPayment = "Payment"

// S2RD is the sequential revenue distributor contract.
type S2RD struct{}

// Code implements ledger.Contract.
func (S2RD) Code() []byte { return s2rdCode }

func construct(tx *ledger.Tx) error {
	tx.PutAddr(fieldDeployer, tx.Caller())
	return nil
}

// Initialize fixes the recipient list and the only address allowed to pay in.
// Deployer only, once.
func (S2RD) Initialize(tx *ledger.Tx, recipients []ledger.Address, coordinator ledger.Address) error {
	deployer, err := tx.Addr(fieldDeployer)
	if err != nil {
		return err
	}
	if tx.Caller() != deployer {
		return fault.Wrapf(fault.ErrUnauthorized, "%s is not the deployer", tx.Caller())
	}
	done, err := tx.Bool(fieldInitialized)
	if err != nil {
		return err
	}
	if done {
		return fault.Wrapf(fault.ErrAlreadyInitialized, "distributor %s", tx.Self())
	}
	if err := ValidateRecipients(recipients); err != nil {
		return err
	}
	tx.PutBool(fieldInitialized, true)
	tx.PutAddr(fieldCoordinator, coordinator)
	tx.PutUint64(fieldCursor, 0)
	if err := tx.Encode(fieldRecipients, recipients); err != nil {
		return err
	}
	log.Debugw("distributor initialized", "address", tx.Self().String(), "recipients", len(recipients))
	return nil
}

// Receive forwards the whole incoming value to the current recipient and
// advances the cursor in the same step.
func (s S2RD) Receive(tx *ledger.Tx) error {
	coord, err := tx.Addr(fieldCoordinator)
	if err != nil {
		return err
	}
	rot, err := s.Rotation(tx)
	if err != nil {
		return err
	}
	if tx.Caller() != coord {
		return fault.Wrapf(fault.ErrCallerNotCoordinator, "%s", tx.Caller())
	}
	amount := tx.Value()
	if amount == 0 {
		return nil
	}
	recipient, err := rot.Current()
	if err != nil {
		return err
	}
	if err := tx.Transfer(recipient, amount); err != nil {
		return err
	}
	tx.Emit(EventPayment, ledger.Attrs{}.
		A("from", tx.Caller()).
		A("recipient", recipient).
		U("addressIndex", rot.Cursor).
		U("value", amount))
	rot.Advance()
	tx.PutUint64(fieldCursor, rot.Cursor)
	return nil
}

// Rotation loads the recipient list and cursor.
func (S2RD) Rotation(tx *ledger.Tx) (Rotation, error) {
	done, err := tx.Bool(fieldInitialized)
	if err != nil {
		return Rotation{}, err
	}
	if !done {
		return Rotation{}, fault.Wrapf(fault.ErrNotInitialized, "distributor %s", tx.Self())
	}
	var r Rotation
	if _, err := tx.Decode(fieldRecipients, &r.Recipients); err != nil {
		return Rotation{}, err
	}
	if r.Cursor, err = tx.Uint64(fieldCursor); err != nil {
		return Rotation{}, err
	}
	return r, nil
}

// Coordinator returns the only permitted payer.
func (S2RD) Coordinator(tx *ledger.Tx) (ledger.Address, error) {
	return tx.Addr(fieldCoordinator)
}
