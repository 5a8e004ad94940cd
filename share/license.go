package share

import (
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/ledger"
)

// License lets licensee incorporate licensor. tx.Value must equal the gross
// license price exactly. Checks run in order: build approval, licensing
// capability, proof of inclusion, payment.
func (c Coordinator) License(tx *ledger.Tx, licensor, licensee ledger.Address) error {
	if err := c.verifyBuild(tx, licensor, assetBuilds...); err != nil {
		return err
	}
	if err := c.verifyBuild(tx, licensee, assetBuilds...); err != nil {
		return err
	}
	lr, err := resolveAsset(tx, licensor)
	if err != nil {
		return err
	}
	le, err := resolveAsset(tx, licensee)
	if err != nil {
		return err
	}

	ok, err := lr.SupportsLicensing(tx.At(licensor))
	if err != nil {
		return err
	}
	if !ok {
		return fault.Wrapf(fault.ErrLicensingNotSupported, "licensor %s", licensor)
	}
	if coll, isColl := le.(Collection); isColl {
		included, err := coll.Includes(tx.At(licensee), licensor)
		if err != nil {
			return err
		}
		if !included {
			return fault.Wrapf(fault.ErrMissingProofOfInclusion, "collection %s does not include %s", licensee, licensor)
		}
	}

	base, err := lr.PricePerLicense(tx.At(licensor))
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
	if err := c.route(tx, licensor, lr, q); err != nil {
		return err
	}

	if err := lr.License(tx.At(licensor), licensee); err != nil {
		return err
	}
	tx.PutUint64(pairField(prefixLicense, licensor, licensee), tx.Now())
	tx.Emit(EventLicense, ledger.Attrs{}.
		A("licensor", licensor).
		A("licensee", licensee).
		U("timestamp", tx.Now()).
		U("value", q.gross))
	return nil
}

// LicenseTimestamp returns the coordinator-side record of the last license of licensor to licensee.
func (Coordinator) LicenseTimestamp(tx *ledger.Tx, licensor, licensee ledger.Address) (uint64, error) {
	return tx.Uint64(pairField(prefixLicense, licensor, licensee))
}
