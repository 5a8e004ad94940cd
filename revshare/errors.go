package revshare

import "errors"

var (
	// ErrZeroRecipient indicates a recipient slot holds the zero address.
	ErrZeroRecipient = errors.New("revshare: zero recipient address")

	// ErrCursorOutOfRange indicates a rotation cursor does not index a recipient.
	ErrCursorOutOfRange = errors.New("revshare: cursor out of range")

	// ErrScheduleMismatch indicates observed payouts diverge from the rotation.
	ErrScheduleMismatch = errors.New("revshare: payouts do not follow rotation")
)
