package asset

import (
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

var collectionCode = []byte("share/asset/pfa-collection/v1")

// Collection is an asset bundling a fixed set of member assets.
// Membership is fixed at initialization and serves as proof of inclusion when licensing.
type Collection struct {
	Unit
}

// Code implements ledger.Contract.
func (Collection) Code() []byte { return collectionCode }

// Initialize stores p and the member list. Owner only, once.
// The collection may not be cheaper to access than any of its members.
func (c Collection) Initialize(tx *ledger.Tx, members []ledger.Address, p Params) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	for _, m := range members {
		impl, err := tx.Contract(m)
		if err != nil {
			return fault.Wrapf(fault.ErrNotAnAsset, "member %s: %v", m, err)
		}
		pricer, ok := impl.(Pricer)
		if !ok {
			return fault.Wrapf(fault.ErrNotAnAsset, "member %s", m)
		}
		price, err := pricer.PricePerAccess(tx.At(m), 0)
		if err != nil {
			return err
		}
		if p.PricePerAccess < price {
			return fault.Wrapf(fault.ErrCollectionPriceBelowMember,
				"collection price %d, member %s price %d", p.PricePerAccess, m, price)
		}
	}
	if err := storeParams(tx, p); err != nil {
		return err
	}
	list := make([]ledger.Address, 0, len(members))
	for _, m := range members {
		seen, err := tx.Bool(recordKey(prefixMember, m))
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		tx.PutBool(recordKey(prefixMember, m), true)
		list = append(list, m)
	}
	if err := tx.Encode(fieldMembers, list); err != nil {
		return err
	}
	log.Debugw("collection initialized", "asset", tx.Self().String(), "members", len(list))
	return nil
}

// Includes reports whether addr was registered as a member at initialization.
func (Collection) Includes(tx *ledger.Tx, addr ledger.Address) (bool, error) {
	return tx.Bool(recordKey(prefixMember, addr))
}

// Members returns the member list in registration order.
func (Collection) Members(tx *ledger.Tx) ([]ledger.Address, error) {
	var list []ledger.Address
	if _, err := tx.Decode(fieldMembers, &list); err != nil {
		return nil, err
	}
	return list, nil
}
