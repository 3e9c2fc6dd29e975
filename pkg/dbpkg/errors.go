package dbpkg

import (
	"errors"

	"github.com/lib/pq"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Constraint returns the name of the violated constraint if err is a postgres error.
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return ""
}

// Classify maps a driver error to errorspkg.ErrConstraintViolation or errorspkg.ErrStorageUnavailable.
func Classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return errorspkg.ErrConstraintViolation
	}

	return errorspkg.ErrStorageUnavailable
}
