package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTransactionCreationFailed indicates that the transaction could not be recorded.
	ErrTransactionCreationFailed = errors.New("transaction creation failed")
	// ErrDepositOperationFailed indicates that the deposit did not complete.
	ErrDepositOperationFailed = errors.New("deposit operation failed")
	// ErrWithdrawalOperationFailed indicates that the withdrawal did not complete.
	ErrWithdrawalOperationFailed = errors.New("withdrawal operation failed")
	// ErrWithdrawalLimitCheckFailed indicates that the daily limit could not be evaluated.
	ErrWithdrawalLimitCheckFailed = errors.New("withdrawal limit check failed")
	// ErrLimitExceeded indicates that the withdrawal would exceed the daily limit.
	ErrLimitExceeded = errors.New("daily withdrawal limit exceeded")
	// ErrStatementFailed indicates that the statement could not be read.
	ErrStatementFailed = errors.New("statement retrieval failed")
	// ErrInvalidStatementDays indicates a statement window outside of the supported range.
	ErrInvalidStatementDays = errors.New("statement days must be between 1 and 365")
)

// Statement window bounds in days.
const (
	DefaultStatementDays = 30
	MaxStatementDays     = 365
)

// Transaction holds a balance change of an account.
type Transaction struct {
	ID        int64           `json:"id"`
	AccountID int32           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"` // positive for deposits, negative for withdrawals
	Date      time.Time       `json:"date"`
}

// Day truncates t to its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
