// Package moneypkg provides common money amount related functionality for apps.
package moneypkg

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places the ledger stores.
const Scale = 2

var (
	// ErrNotANumber indicates that the amount is not a decimal number.
	ErrNotANumber = errors.New("amount is not a decimal number")
	// ErrNotPositive indicates that the amount is zero or negative.
	ErrNotPositive = errors.New("amount must be positive")
	// ErrTooPrecise indicates that the amount has more decimals than the ledger stores.
	ErrTooPrecise = errors.New("amount has more than 2 decimal places")
)

// ParsePositive parses s as a positive amount with at most Scale decimals.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}

	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}

	if !d.Equal(d.Truncate(Scale)) {
		return decimal.Zero, ErrTooPrecise
	}

	return d, nil
}

// ValidAmount validates whether the field holds a positive decimal amount.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := ParsePositive(s)
		return err == nil
	}

	return false
}
