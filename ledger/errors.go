package ledger

import "errors"

var (
	// ErrInsufficientBalance indicates the payer cannot cover a value transfer.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrBalanceOverflow indicates a credit would overflow the recipient balance.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")

	// ErrNotPayable indicates value was sent to a contract that does not accept plain transfers.
	ErrNotPayable = errors.New("ledger: contract does not accept payments")

	// ErrUnknownContract indicates no contract code is bound at the address.
	ErrUnknownContract = errors.New("ledger: unknown contract")

	// ErrCodeMismatch indicates the code being bound differs from the deployed code.
	ErrCodeMismatch = errors.New("ledger: code hash mismatch")

	// ErrKeyNotFound indicates the state key is absent from the store.
	ErrKeyNotFound = errors.New("ledger: key not found")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")

	// ErrCallDepth indicates nested contract calls exceeded MaxCallDepth.
	ErrCallDepth = errors.New("ledger: call depth exceeded")

	// ErrInvalidAddress indicates an address string could not be parsed.
	ErrInvalidAddress = errors.New("ledger: invalid address")
)
