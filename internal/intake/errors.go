package intake

import "errors"

var (
	// ErrMissingSender rejects webhook deliveries with no sender address.
	ErrMissingSender = errors.New("intake: missing sender")
	// ErrMissingBody rejects webhook deliveries with no body text.
	ErrMissingBody = errors.New("intake: missing body")
	// ErrReparseRunning reports a reconciliation run already holding the lock.
	ErrReparseRunning = errors.New("intake: reparse already running")
)
