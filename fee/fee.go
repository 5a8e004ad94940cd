// Package fee implements protocol fee arithmetic on native value units.
//
// All prices are unsigned integers in the smallest unit of value. Products
// are computed with 128-bit intermediates so that base*(d+n) never wraps.
package fee

import (
	"math/bits"

	"github.com/bitfsorg/libshare-go/fault"
)

// Default is the protocol fee applied at deployment: 1/20 (5%).
var Default = Config{Numerator: 1, Denominator: 20}

// Config is the protocol fee expressed as Numerator/Denominator.
type Config struct {
	Numerator   uint64
	Denominator uint64
}

// Validate rejects a zero denominator.
func (c Config) Validate() error {
	if c.Denominator == 0 {
		return fault.ErrZeroDenominator
	}
	return nil
}

// GrossPrice returns floor(base * (d + n) / d), the amount a payer must supply exactly.
func GrossPrice(base uint64, c Config) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	sum, carry := bits.Add64(c.Denominator, c.Numerator, 0)
	hi, lo := bits.Mul64(base, sum)
	if carry != 0 {
		// base * (2^64 + sum) = base*sum + base<<64
		var c2 uint64
		hi, c2 = bits.Add64(hi, base, 0)
		if c2 != 0 {
			return 0, fault.Wrapf(fault.ErrPriceOverflow, "base %d", base)
		}
	}
	if hi >= c.Denominator {
		return 0, fault.Wrapf(fault.ErrPriceOverflow, "base %d at fee %d/%d", base, c.Numerator, c.Denominator)
	}
	q, _ := bits.Div64(hi, lo, c.Denominator)
	return q, nil
}

// FeePortion is the part of gross retained as protocol fee for the given base price.
func FeePortion(gross, base uint64) uint64 {
	if gross < base {
		return 0
	}
	return gross - base
}

// Portion returns floor(amount * num / den). A zero den yields ErrZeroDenominator.
func Portion(amount, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, fault.ErrZeroDenominator
	}
	hi, lo := bits.Mul64(amount, num)
	if hi >= den {
		return 0, fault.Wrapf(fault.ErrPriceOverflow, "%d * %d / %d", amount, num, den)
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}
