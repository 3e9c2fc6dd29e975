// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, string, error)
	GetBalance(ctx context.Context, id int32) (decimal.NullDecimal, error)
	IsActive(ctx context.Context, id int32) (bool, error)
	SetActive(ctx context.Context, id int32, active bool) error
}

// TransactionRepo provides transaction history needed by account service layer.
type TransactionRepo interface {
	ListSince(ctx context.Context, accountID int32, since time.Time) ([]domain.Transaction, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo         Repo
	transactions TransactionRepo
	now          func() time.Time
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, tr TransactionRepo) *Service {
	return &Service{
		repo:         ar,
		transactions: tr,
		now:          time.Now,
	}
}

// Create hashes the password, stores the account and returns it.
//
// Unset optional fields of arg take the store defaults.
func (s *Service) Create(ctx context.Context, arg domain.CreateAccountParams, password string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	arg.HashedPassword = hashedPassword

	return s.repo.Create(ctx, arg)
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	account, _, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// CheckPassword returns the account if the password matches the stored hash.
//
// A missing account is reported as invalid credentials.
func (s *Service) CheckPassword(ctx context.Context, id int32, password string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	account, hash, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			l.Info().Int32("account_id", id).Msg("login for unknown account")
			return domain.Account{}, domain.ErrInvalidCredentials
		}

		return domain.Account{}, err
	}

	if err := passpkg.Check(password, hash); err != nil {
		l.Warn().Err(err).Int32("account_id", id).Send()
		return domain.Account{}, domain.ErrInvalidCredentials
	}

	return account, nil
}

// GetBalance returns the account balance, invalid when the account does not exist.
func (s *Service) GetBalance(ctx context.Context, id int32) (decimal.NullDecimal, error) {
	return s.repo.GetBalance(ctx, id)
}

// IsActive reports whether the account accepts operations.
func (s *Service) IsActive(ctx context.Context, id int32) (bool, error) {
	return s.repo.IsActive(ctx, id)
}

// SetActive writes the active flag and returns the value read back from the store.
func (s *Service) SetActive(ctx context.Context, id int32, active bool) (bool, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return false, err
	}

	stored, err := s.repo.IsActive(ctx, id)
	if err != nil {
		return false, err
	}

	if stored != active {
		zerolog.Ctx(ctx).Error().Int32("account_id", id).Bool("want", active).Msg("active flag was not applied")
	}

	return stored, nil
}

// Statement returns the account transactions of the last days, oldest first.
// The window covers days calendar dates ending today.
//
// Zero days selects domain.DefaultStatementDays.
func (s *Service) Statement(ctx context.Context, id int32, days int) ([]domain.Transaction, error) {
	if days == 0 {
		days = domain.DefaultStatementDays
	}

	if days < 1 || days > domain.MaxStatementDays {
		return nil, domain.ErrInvalidStatementDays
	}

	since := domain.Day(s.now()).AddDate(0, 0, -days+1)

	return s.transactions.ListSince(ctx, id, since)
}
