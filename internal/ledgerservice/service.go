// Package ledgerservice manages business logic layer of deposits and withdrawals.
//
// A ledger operation is two independent writes: the balance update and the transaction
// record. They share no atomic boundary, so a failed record is followed by a compensating
// balance update that reverses the first write.
package ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/lockpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// AccountRepo provides balance access needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type AccountRepo interface {
	AddBalance(ctx context.Context, id int32, delta decimal.Decimal) (domain.Account, error)
	GetDailyLimit(ctx context.Context, id int32) (decimal.Decimal, error)
}

// TransactionRepo provides transaction records needed by ledger service layer.
type TransactionRepo interface {
	Create(ctx context.Context, accountID int32, amount decimal.Decimal, day time.Time) (domain.Transaction, error)
	SumWithdrawals(ctx context.Context, accountID int32, day time.Time) (decimal.Decimal, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	accounts     AccountRepo
	transactions TransactionRepo
	locker       lockpkg.Locker
	now          func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithLocker serializes WithdrawChecked per account with l.
func WithLocker(l lockpkg.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithClock sets the clock that decides the transaction day.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New returns ledger service struct to manage deposits and withdrawals.
func New(ar AccountRepo, tr TransactionRepo, opts ...Option) *Service {
	s := &Service{
		accounts:     ar,
		transactions: tr,
		locker:       lockpkg.Noop{},
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func parseAmount(amount string) (decimal.Decimal, error) {
	a, err := moneypkg.ParsePositive(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", domain.ErrInvalidAmount, err)
	}

	return a, nil
}

// Deposit adds amount to the account balance and records it as a positive transaction.
func (s *Service) Deposit(ctx context.Context, accountID int32, amount string) (domain.Transaction, error) {
	a, err := parseAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	return s.apply(ctx, accountID, a, domain.ErrDepositOperationFailed)
}

// Withdraw subtracts amount from the account balance and records it as a negative transaction.
//
// The daily limit must have been checked by the caller, see WithdrawChecked.
func (s *Service) Withdraw(ctx context.Context, accountID int32, amount string) (domain.Transaction, error) {
	a, err := parseAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	return s.apply(ctx, accountID, a.Neg(), domain.ErrWithdrawalOperationFailed)
}

// apply mutates the balance by delta, then records delta, compensating the balance when recording fails.
func (s *Service) apply(ctx context.Context, accountID int32, delta decimal.Decimal, opErr error) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx).With().
		Int32("account_id", accountID).
		Stringer("amount", delta.Abs()).
		Logger()

	if _, err := s.accounts.AddBalance(ctx, accountID, delta); err != nil {
		l.Error().Err(err).Msg("balance update failed")
		return domain.Transaction{}, errors.WithStack(
			fmt.Errorf("%w: account %d amount %s: %w", opErr, accountID, delta.Abs(), err))
	}

	t, err := s.transactions.Create(ctx, accountID, delta, s.now())
	if err == nil {
		return t, nil
	}

	failure := fmt.Errorf("%w: account %d amount %s: %w", opErr, accountID, delta.Abs(), err)

	// The request may already be cancelled; the reversal must still reach the store.
	if _, cerr := s.accounts.AddBalance(context.WithoutCancel(ctx), accountID, delta.Neg()); cerr != nil {
		l.Error().Err(cerr).AnErr("cause", err).Msg("compensation failed, balance left mutated")
		failure = fmt.Errorf("%w: compensation failed: %w", failure, cerr)
	} else {
		l.Warn().Err(err).Msg("transaction record failed, balance compensated")
	}

	return domain.Transaction{}, errors.WithStack(failure)
}

// ReachedLimit reports whether withdrawing proposed today would take the account over its daily limit.
//
// Reaching the limit exactly is allowed.
func (s *Service) ReachedLimit(ctx context.Context, accountID int32, proposed decimal.Decimal) (bool, error) {
	l := zerolog.Ctx(ctx)

	limit, err := s.accounts.GetDailyLimit(ctx, accountID)
	if err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Msg("daily limit lookup failed")
		return false, fmt.Errorf("%w: account %d: %w", domain.ErrWithdrawalLimitCheckFailed, accountID, err)
	}

	total, err := s.transactions.SumWithdrawals(ctx, accountID, s.now())
	if err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Msg("withdrawal sum failed")
		return false, fmt.Errorf("%w: account %d: %w", domain.ErrWithdrawalLimitCheckFailed, accountID, err)
	}

	return total.Add(proposed.Abs()).GreaterThan(limit), nil
}

// WithdrawChecked runs the daily limit check and then the withdrawal.
//
// With the default locker the two steps are not serialized and concurrent requests
// for one account can both pass the check.
func (s *Service) WithdrawChecked(ctx context.Context, accountID int32, amount string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	a, err := parseAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	release, err := s.locker.Acquire(ctx, accountID)
	if err != nil {
		l.Error().Err(err).Int32("account_id", accountID).Msg("account lock failed")
		return domain.Transaction{}, fmt.Errorf("%w: account %d amount %s: %w",
			domain.ErrWithdrawalOperationFailed, accountID, a, err)
	}

	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			l.Warn().Err(err).Int32("account_id", accountID).Msg("account lock release failed")
		}
	}()

	reached, err := s.ReachedLimit(ctx, accountID, a)
	if err != nil {
		return domain.Transaction{}, err
	}

	if reached {
		l.Info().Int32("account_id", accountID).Stringer("amount", a).Msg("daily withdrawal limit reached")
		return domain.Transaction{}, domain.ErrLimitExceeded
	}

	return s.apply(ctx, accountID, a.Neg(), domain.ErrWithdrawalOperationFailed)
}
