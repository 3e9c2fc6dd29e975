// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountCreationFailed indicates that the account could not be stored.
	ErrAccountCreationFailed = errors.New("account creation failed")
	// ErrAccountRetrievalFailed indicates that the account could not be read.
	ErrAccountRetrievalFailed = errors.New("account retrieval failed")
	// ErrAccountStatusChangeFailed indicates that the active flag could not be changed.
	ErrAccountStatusChangeFailed = errors.New("account status change failed")
	// ErrAccountInactive indicates that the account is blocked for operations.
	ErrAccountInactive = errors.New("account is blocked")
	// ErrAccountOwnerMismatch indicates that the token was issued for another account.
	ErrAccountOwnerMismatch = errors.New("account doesn't belong to the authenticated user")
	// ErrInvalidCredentials indicates a wrong account id and password pair.
	ErrInvalidCredentials = errors.New("invalid account ID and/or password")
	// ErrInvalidCategory indicates an unsupported account category.
	ErrInvalidCategory = errors.New("invalid account category")
)

// AccountCategory is the kind of account.
type AccountCategory string

// Supported account categories.
const (
	Checking AccountCategory = "Checking"
	Savings  AccountCategory = "Savings"
)

// IsSupportedCategory returns true if the category is supported.
func IsSupportedCategory(c string) bool {
	switch AccountCategory(c) {
	case Checking, Savings:
		return true
	}

	return false
}

// DefaultDailyLimit is applied when an account is created without a limit.
var DefaultDailyLimit = decimal.NewFromInt(1000)

// Account holds balance data of a person's account.
type Account struct {
	ID         int32           `json:"id"`
	PersonID   int32           `json:"person_id"`
	Balance    decimal.Decimal `json:"balance"`
	DailyLimit decimal.Decimal `json:"daily_limit"`
	Active     bool            `json:"active"`
	Category   AccountCategory `json:"category"`
	CreatedOn  time.Time       `json:"created_on"`
}

// CreateAccountParams is the input data to create an account.
//
// Nil fields are left to the store defaults.
type CreateAccountParams struct {
	PersonID       int32
	Category       AccountCategory
	Balance        *decimal.Decimal
	DailyLimit     *decimal.Decimal
	Active         *bool
	CreatedOn      *time.Time
	HashedPassword string
}
