package revshare

import (
	"fmt"

	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

// ValidateRecipients checks a recipient list is usable for a rotation.
// Repeated addresses are allowed and weight that recipient by its slot count.
func ValidateRecipients(recipients []ledger.Address) error {
	if len(recipients) == 0 {
		return fault.ErrNoRecipients
	}
	for i, r := range recipients {
		if r.IsZero() {
			return fmt.Errorf("%w: slot %d", ErrZeroRecipient, i)
		}
	}
	return nil
}

// ValidateDistribution checks observed payouts against the schedule implied by
// starting rotation r and the incoming payments.
func ValidateDistribution(observed []Distribution, r Rotation, payments []uint64) error {
	expected, err := Schedule(r, payments)
	if err != nil {
		return err
	}
	if len(observed) != len(expected) {
		return fmt.Errorf("%w: %d payouts, expected %d", ErrScheduleMismatch, len(observed), len(expected))
	}
	for i := range observed {
		if observed[i] != expected[i] {
			return fmt.Errorf("%w: payout %d is %+v, expected %+v", ErrScheduleMismatch, i, observed[i], expected[i])
		}
	}
	return nil
}
