package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/personrepo"
	"github.com/go-petr/pet-ledger/internal/personservice"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

type seedOptions struct {
	persons      int
	accounts     int
	transactions int
	password     string
}

func seedCommand(a *app) *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "fill the database with random persons, accounts and transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.persons < 1 || opts.accounts < 1 || opts.transactions < 0 {
				return errors.New("seed needs at least one person and one account")
			}

			conn, err := a.connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := a.logger.WithContext(cmd.Context())

			return seed(ctx, seedStores{
				persons:      personservice.New(personrepo.NewRepoPGS(conn)),
				accounts:     accountservice.New(accountrepo.NewRepoPGS(conn), transactionrepo.NewRepoPGS(conn)),
				balances:     accountrepo.NewRepoPGS(conn),
				transactions: transactionrepo.NewRepoPGS(conn),
			}, opts)
		},
	}

	cmd.Flags().IntVar(&opts.persons, "persons", 125, "number of persons to create")
	cmd.Flags().IntVar(&opts.accounts, "accounts", 250, "number of accounts spread over the persons")
	cmd.Flags().IntVar(&opts.transactions, "transactions", 5000, "number of transactions spread over the accounts")
	cmd.Flags().StringVar(&opts.password, "password", "secret", "password of every seeded account")

	return cmd
}

type seedStores struct {
	persons      *personservice.Service
	accounts     *accountservice.Service
	balances     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

func seed(ctx context.Context, s seedStores, opts seedOptions) error {
	personIDs := make([]int32, 0, opts.persons)

	for i := 0; i < opts.persons; i++ {
		p, err := s.persons.Create(ctx, domain.CreatePersonParams{
			Name:      randompkg.Name(),
			TaxID:     randompkg.TaxID(),
			BirthDate: randompkg.BirthDate(),
		})
		if err != nil {
			return fmt.Errorf("seeding person %d: %w", i, err)
		}

		personIDs = append(personIDs, p.ID)
	}

	accountIDs := make([]int32, 0, opts.accounts)
	categories := []string{string(domain.Checking), string(domain.Savings)}

	for i := 0; i < opts.accounts; i++ {
		balance := randompkg.MoneyAmountBetween(0, 5000)
		limit := randompkg.MoneyAmountBetween(0, 10000)
		active := gofakeit.Float64() > 0.2
		createdOn := domain.Day(gofakeit.DateRange(time.Now().AddDate(-2, 0, 0), time.Now()))

		acc, err := s.accounts.Create(ctx, domain.CreateAccountParams{
			PersonID:   personIDs[gofakeit.Number(0, len(personIDs)-1)],
			Category:   domain.AccountCategory(gofakeit.RandomString(categories)),
			Balance:    &balance,
			DailyLimit: &limit,
			Active:     &active,
			CreatedOn:  &createdOn,
		}, opts.password)
		if err != nil {
			return fmt.Errorf("seeding account %d: %w", i, err)
		}

		accountIDs = append(accountIDs, acc.ID)
	}

	for i := 0; i < opts.transactions; i++ {
		accountID := accountIDs[gofakeit.Number(0, len(accountIDs)-1)]

		amount := randompkg.MoneyAmountBetween(0.01, 500)
		if gofakeit.Bool() {
			amount = amount.Neg()
		}

		day := domain.Day(gofakeit.DateRange(time.Now().AddDate(0, 0, -365), time.Now()))

		if _, err := s.balances.AddBalance(ctx, accountID, amount); err != nil {
			return fmt.Errorf("seeding transaction %d: %w", i, err)
		}

		if _, err := s.transactions.Create(ctx, accountID, amount, day); err != nil {
			return fmt.Errorf("seeding transaction %d: %w", i, err)
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("persons", len(personIDs)).
		Int("accounts", len(accountIDs)).
		Int("transactions", opts.transactions).
		Msg("database seeded")

	return nil
}
