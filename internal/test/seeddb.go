// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/personrepo"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// SeedPerson creates a random Person inside a test transaction.
func SeedPerson(t *testing.T, tx dbpkg.SQLInterface) domain.Person {
	t.Helper()

	arg := domain.CreatePersonParams{
		Name:      randompkg.Name(),
		TaxID:     randompkg.TaxID(),
		BirthDate: randompkg.BirthDate(),
	}

	person, err := personrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("personRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return person
}

// SeedAccount creates an Account with store defaults for the person and returns it.
//
// The account password is "secret".
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, personID int32) domain.Account {
	t.Helper()

	return SeedAccountWith(t, tx, domain.CreateAccountParams{PersonID: personID, Category: domain.Checking})
}

// SeedAccountWith creates an Account from arg, hashing "secret" when no hash is set.
func SeedAccountWith(t *testing.T, tx dbpkg.SQLInterface, arg domain.CreateAccountParams) domain.Account {
	t.Helper()

	if arg.HashedPassword == "" {
		hash, err := passpkg.Hash("secret")
		if err != nil {
			t.Fatalf(`passpkg.Hash("secret") returned error: %v`, err)
		}

		arg.HashedPassword = hash
	}

	account, err := accountrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedTransaction records a signed amount for the account on the given day.
func SeedTransaction(t *testing.T, tx dbpkg.SQLInterface, accountID int32, amount decimal.Decimal, day time.Time) domain.Transaction {
	t.Helper()

	tr, err := transactionrepo.NewRepoPGS(tx).Create(context.Background(), accountID, amount, day)
	if err != nil {
		t.Fatalf("transactionRepo.Create(context.Background(), %d, %v, %v) returned error: %v",
			accountID, amount, day, err)
	}

	return tr
}
