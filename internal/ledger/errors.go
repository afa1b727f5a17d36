package ledger

import (
	"errors"
	"fmt"
)

// TransportError reports that every transport attempt for one delivery
// failed: connection errors, timeouts, or responses that could not be parsed
// as the ledger's structured format.
//
// The record is still undelivered as far as the client can tell; callers
// queue it and let a later drain retry.
type TransportError struct {
	// Attempts is the number of requests issued before giving up.
	Attempts int

	// Err is the failure from the final attempt.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("ledger unreachable after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the final attempt's error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError reports that the ledger explicitly rejected the record.
// The client does not retry these; the next drain cycle may.
type ApplicationError struct {
	// Message is the rejection message from the ledger, if any.
	Message string
}

// Error implements the error interface.
func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return "ledger rejected transaction"
	}
	return fmt.Sprintf("ledger rejected transaction: %s", e.Message)
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsApplicationError reports whether err is (or wraps) an ApplicationError.
func IsApplicationError(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
