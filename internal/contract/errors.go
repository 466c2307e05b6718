// internal/contract/errors.go
package contract

import "errors"

var (
	ErrReadFailed          = errors.New("contract read failed")
	ErrNoCharacterFound    = errors.New("no character exists")
	ErrSubmissionRejected  = errors.New("transaction submission rejected")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrConfirmTimeout      = errors.New("transaction confirmation timed out")
	ErrNumericOverflow     = errors.New("numeric value out of range")
	ErrClientClosed        = errors.New("contract client closed")
	ErrUnknownEvent        = errors.New("unknown contract event")
	ErrSubscriptionLost    = errors.New("contract event subscription lost")
)
