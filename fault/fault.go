// Package fault defines the coded protocol errors surfaced to callers.
//
// Every error is registered in the "share" codespace with ABCI code
// 100+n and a message beginning with its SHAREnnn code, so callers can
// match either with errors.Is or on the code string.
package fault

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Codespace is the registration namespace for protocol errors.
const Codespace = "share"

const codeBase = 100

var (
	ErrNonApprovedBuild           = register(0, "non-approved build")
	ErrMissingProofOfInclusion    = register(1, "missing proof of inclusion")
	ErrPaymentMismatch            = register(2, "payment does not match gross price")
	ErrUnauthorized               = register(3, "caller is not authorized")
	ErrZeroDenominator            = register(4, "denominator must be non-zero")
	ErrInvalidBuildType           = register(5, "invalid build type")
	ErrCallerNotCoordinator       = register(6, "caller is not the coordinator")
	ErrAlreadyInitialized         = register(7, "already initialized")
	ErrNotInitialized             = register(8, "not initialized")
	ErrNoRecipients               = register(9, "recipient list is empty")
	ErrInvalidDistribution        = register(10, "distribution numerator exceeds denominator")
	ErrNotAnAsset                 = register(11, "target is not a licensable asset")
	ErrPriceOverflow              = register(12, "gross price overflows")
	ErrCollectionPriceBelowMember = register(15, "collection price below member price")
	ErrLicensingNotSupported      = register(18, "licensing not supported")
)

func register(n uint32, desc string) *errorsmod.Error {
	return errorsmod.Register(Codespace, codeBase+n, fmt.Sprintf("SHARE%03d: %s", n, desc))
}

// Code returns the SHAREnnn code carried by err, or "" if err is not a protocol error.
func Code(err error) string {
	var e *errorsmod.Error
	if !errors.As(err, &e) || e.Codespace() != Codespace {
		return ""
	}
	return fmt.Sprintf("SHARE%03d", e.ABCICode()-codeBase)
}

// Wrapf annotates a protocol error with call-site detail while keeping it matchable.
func Wrapf(err *errorsmod.Error, format string, args ...interface{}) error {
	return errorsmod.Wrapf(err, format, args...)
}
