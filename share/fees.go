package share

import (
	"github.com/bitfsorg/libshare-go/fee"
	"github.com/bitfsorg/libshare-go/ledger"
)

// SetTransactionFee replaces the protocol fee. Owner only; the denominator must be non-zero.
func (Coordinator) SetTransactionFee(tx *ledger.Tx, numerator, denominator uint64) error {
	if err := onlyOwner(tx); err != nil {
		return err
	}
	cfg := fee.Config{Numerator: numerator, Denominator: denominator}
	if err := cfg.Validate(); err != nil {
		return err
	}
	tx.PutUint64(fieldFeeNumerator, numerator)
	tx.PutUint64(fieldFeeDenominator, denominator)
	tx.Emit(EventTransactionFee, ledger.Attrs{}.U("numerator", numerator).U("denominator", denominator))
	log.Infow("transaction fee set", "numerator", numerator, "denominator", denominator)
	return nil
}

// TransactionFee returns the current protocol fee.
func (Coordinator) TransactionFee(tx *ledger.Tx) (fee.Config, error) {
	var cfg fee.Config
	var err error
	if cfg.Numerator, err = tx.Uint64(fieldFeeNumerator); err != nil {
		return cfg, err
	}
	if cfg.Denominator, err = tx.Uint64(fieldFeeDenominator); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// quote is the price breakdown of one payable operation.
type quote struct {
	base  uint64
	gross uint64
}

func (q quote) feePortion() uint64 { return fee.FeePortion(q.gross, q.base) }

func (c Coordinator) quote(tx *ledger.Tx, base uint64) (quote, error) {
	cfg, err := c.TransactionFee(tx)
	if err != nil {
		return quote{}, err
	}
	gross, err := fee.GrossPrice(base, cfg)
	if err != nil {
		return quote{}, err
	}
	return quote{base: base, gross: gross}, nil
}

// GrossPricePerAccess returns the exact amount Access requires for tokenID of assetAddr.
func (c Coordinator) GrossPricePerAccess(tx *ledger.Tx, assetAddr ledger.Address, tokenID uint64) (uint64, error) {
	a, err := resolveAsset(tx, assetAddr)
	if err != nil {
		return 0, err
	}
	base, err := a.PricePerAccess(tx.At(assetAddr), tokenID)
	if err != nil {
		return 0, err
	}
	q, err := c.quote(tx, base)
	return q.gross, err
}

// GrossPricePerLicense returns the exact amount License requires for licensor.
func (c Coordinator) GrossPricePerLicense(tx *ledger.Tx, licensor ledger.Address) (uint64, error) {
	a, err := resolveAsset(tx, licensor)
	if err != nil {
		return 0, err
	}
	base, err := a.PricePerLicense(tx.At(licensor))
	if err != nil {
		return 0, err
	}
	q, err := c.quote(tx, base)
	return q.gross, err
}
