// Package transactionrepo manages repository layer of ledger transactions.
package transactionrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// RepoPGS facilitates transaction repository layer logic.
//
// Transactions are append-only, there is no update or delete path.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    transactions (account_id, amount, date)
VALUES
    ($1, $2, $3)
RETURNING id, account_id, amount, date
`

// Create records a signed amount for the account on the given day.
func (r *RepoPGS) Create(ctx context.Context, accountID int32, amount decimal.Decimal, day time.Time) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, accountID, amount, domain.Day(day))

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Amount,
		&t.Date,
	)
	if err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Stringer("amount", amount).Send()
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrTransactionCreationFailed, dbpkg.Classify(err))
	}

	return t, nil
}

const sumWithdrawalsQuery = `
SELECT COALESCE(SUM(ABS(amount)), 0) FROM transactions
WHERE account_id = $1 AND amount < 0 AND date = $2
`

// SumWithdrawals returns the total absolute value withdrawn from the account on the given day.
func (r *RepoPGS) SumWithdrawals(ctx context.Context, accountID int32, day time.Time) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	var total decimal.Decimal

	err := r.db.QueryRowContext(ctx, sumWithdrawalsQuery, accountID, domain.Day(day)).Scan(&total)
	if err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Send()
		return decimal.Decimal{}, dbpkg.Classify(err)
	}

	return total, nil
}

const listSinceQuery = `
SELECT id, account_id, amount, date FROM transactions
WHERE account_id = $1 AND date >= $2
ORDER BY id
`

// ListSince returns the account transactions dated on or after since, oldest first.
func (r *RepoPGS) ListSince(ctx context.Context, accountID int32, since time.Time) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listSinceQuery, accountID, domain.Day(since))
	if err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Send()
		return nil, fmt.Errorf("%w: %w", domain.ErrStatementFailed, dbpkg.Classify(err))
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Amount,
			&t.Date,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, fmt.Errorf("%w: %w", domain.ErrStatementFailed, dbpkg.Classify(err))
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("%w: %w", domain.ErrStatementFailed, dbpkg.Classify(err))
	}

	return items, nil
}
