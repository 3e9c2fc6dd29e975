// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}

	return *v
}

const createQuery = `
INSERT INTO
    accounts (person_id, category, password_hash, balance, daily_limit, active, created_on)
VALUES
    ($1, $2, $3,
     COALESCE($4::numeric, 0),
     COALESCE($5::numeric, 1000),
     COALESCE($6::boolean, TRUE),
     COALESCE($7::date, CURRENT_DATE))
RETURNING id, person_id, balance, daily_limit, active, category, created_on
`

// Create stores the account and returns it with the generated id and applied defaults.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.PersonID,
		string(arg.Category),
		arg.HashedPassword,
		nullable(arg.Balance),
		nullable(arg.DailyLimit),
		nullable(arg.Active),
		nullable(arg.CreatedOn),
	)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.PersonID,
		&a.Balance,
		&a.DailyLimit,
		&a.Active,
		&a.Category,
		&a.CreatedOn,
	)
	if err != nil {
		l.Error().Err(err).Int32("person_id", arg.PersonID).Send()

		if dbpkg.Constraint(err) == "accounts_category_check" {
			return domain.Account{}, fmt.Errorf("%w: %w", domain.ErrAccountCreationFailed, domain.ErrInvalidCategory)
		}

		return domain.Account{}, fmt.Errorf("%w: %w", domain.ErrAccountCreationFailed, dbpkg.Classify(err))
	}

	return a, nil
}

const getQuery = `
SELECT
    id, person_id, balance, daily_limit, active, category, created_on, password_hash
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id together with its password hash.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, string, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var (
		a    domain.Account
		hash string
	)

	err := row.Scan(
		&a.ID,
		&a.PersonID,
		&a.Balance,
		&a.DailyLimit,
		&a.Active,
		&a.Category,
		&a.CreatedOn,
		&hash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, "", domain.ErrAccountNotFound
		}

		l.Error().Err(err).Int32("account_id", id).Send()

		return domain.Account{}, "", fmt.Errorf("%w: %w", domain.ErrAccountRetrievalFailed, dbpkg.Classify(err))
	}

	return a, hash, nil
}

const getBalanceQuery = `
SELECT balance FROM accounts
WHERE id = $1
`

// GetBalance returns the account balance.
//
// A missing account yields an invalid NullDecimal and a nil error.
func (r *RepoPGS) GetBalance(ctx context.Context, id int32) (decimal.NullDecimal, error) {
	l := zerolog.Ctx(ctx)

	var balance decimal.NullDecimal

	err := r.db.QueryRowContext(ctx, getBalanceQuery, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.NullDecimal{}, nil
		}

		l.Error().Err(err).Int32("account_id", id).Send()

		return decimal.NullDecimal{}, fmt.Errorf("%w: %w", domain.ErrAccountRetrievalFailed, dbpkg.Classify(err))
	}

	return balance, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, person_id, balance, daily_limit, active, category, created_on
`

// AddBalance adds the signed delta to the stored balance and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, id int32, delta decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, delta, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.PersonID,
		&a.Balance,
		&a.DailyLimit,
		&a.Active,
		&a.Category,
		&a.CreatedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Int32("account_id", id).Stringer("delta", delta).Send()

		return domain.Account{}, dbpkg.Classify(err)
	}

	return a, nil
}

const isActiveQuery = `
SELECT active FROM accounts
WHERE id = $1
`

// IsActive returns the active flag of the account.
func (r *RepoPGS) IsActive(ctx context.Context, id int32) (bool, error) {
	l := zerolog.Ctx(ctx)

	var active bool

	err := r.db.QueryRowContext(ctx, isActiveQuery, id).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Int32("account_id", id).Send()

		return false, fmt.Errorf("%w: %w", domain.ErrAccountRetrievalFailed, dbpkg.Classify(err))
	}

	return active, nil
}

const setActiveQuery = `
UPDATE accounts
SET active = $1
WHERE id = $2
`

// SetActive writes the active flag of the account.
func (r *RepoPGS) SetActive(ctx context.Context, id int32, active bool) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, setActiveQuery, active, id)
	if err != nil {
		l.Error().Err(err).Int32("account_id", id).Bool("active", active).Send()
		return fmt.Errorf("%w: %w", domain.ErrAccountStatusChangeFailed, dbpkg.Classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Int32("account_id", id).Send()
		return fmt.Errorf("%w: %w", domain.ErrAccountStatusChangeFailed, dbpkg.Classify(err))
	}

	if n == 0 {
		return fmt.Errorf("%w: %w", domain.ErrAccountStatusChangeFailed, domain.ErrAccountNotFound)
	}

	return nil
}

const getDailyLimitQuery = `
SELECT daily_limit FROM accounts
WHERE id = $1
`

// GetDailyLimit returns the daily withdrawal limit of the account.
func (r *RepoPGS) GetDailyLimit(ctx context.Context, id int32) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	var limit decimal.Decimal

	err := r.db.QueryRowContext(ctx, getDailyLimitQuery, id).Scan(&limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Int32("account_id", id).Send()

		return decimal.Decimal{}, dbpkg.Classify(err)
	}

	return limit, nil
}
