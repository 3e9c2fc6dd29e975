// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrStorageUnavailable indicates that the ledger store could not serve the statement.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConstraintViolation indicates that the ledger store rejected the statement.
	ErrConstraintViolation = errors.New("constraint violation")
)
