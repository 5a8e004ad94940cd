package revshare

import "github.com/bitfsorg/libshare-go/fault"

// Schedule previews where each of payments would go, starting from r's cursor.
// Every payment goes whole to one recipient; zero payments are skipped and do not
// advance the rotation. r is not modified.
func Schedule(r Rotation, payments []uint64) ([]Distribution, error) {
	if len(r.Recipients) == 0 {
		return nil, fault.ErrNoRecipients
	}
	if r.Cursor >= uint64(len(r.Recipients)) {
		return nil, ErrCursorOutOfRange
	}

	out := make([]Distribution, 0, len(payments))
	for _, amount := range payments {
		if amount == 0 {
			continue
		}
		out = append(out, Distribution{
			Index:   r.Cursor,
			Address: r.Recipients[r.Cursor],
			Amount:  amount,
		})
		r.Advance()
	}
	return out, nil
}

// Totals sums scheduled payouts per recipient slot.
func Totals(n int, ds []Distribution) []uint64 {
	totals := make([]uint64, n)
	for _, d := range ds {
		if d.Index < uint64(n) {
			totals[d.Index] += d.Amount
		}
	}
	return totals
}
