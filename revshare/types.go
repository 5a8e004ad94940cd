package revshare

import "github.com/bitfsorg/libshare-go/ledger"

// Rotation is the state of a sequential distributor: a fixed recipient list
// and the index of the next recipient to be paid.
type Rotation struct {
	Recipients []ledger.Address
	Cursor     uint64
}

// Len returns the number of recipient slots.
func (r *Rotation) Len() int { return len(r.Recipients) }

// Current returns the recipient the next payment goes to.
func (r *Rotation) Current() (ledger.Address, error) {
	if r.Cursor >= uint64(len(r.Recipients)) {
		return ledger.ZeroAddress, ErrCursorOutOfRange
	}
	return r.Recipients[r.Cursor], nil
}

// Advance moves the cursor one slot, wrapping at the end of the list.
func (r *Rotation) Advance() {
	r.Cursor = (r.Cursor + 1) % uint64(len(r.Recipients))
}

// IndexOf returns every slot held by addr. A recipient may appear more than once.
func (r *Rotation) IndexOf(addr ledger.Address) []int {
	var idx []int
	for i, a := range r.Recipients {
		if a == addr {
			idx = append(idx, i)
		}
	}
	return idx
}

// Distribution is a single whole payout to one recipient.
type Distribution struct {
	Index   uint64
	Address ledger.Address
	Amount  uint64
}
