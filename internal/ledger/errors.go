package ledger

import "errors"

var (
	// ErrInvalidInput covers non-positive amounts, empty participant sets,
	// unknown or archived members, and missing payers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a bill or member ID is not in the group.
	ErrNotFound = errors.New("not found")

	// ErrInconsistent signals a sum-invariant violation. It should never
	// occur when bills are built through AddBill; it is a programmer error,
	// not a recoverable runtime case.
	ErrInconsistent = errors.New("ledger invariant violated")
)
