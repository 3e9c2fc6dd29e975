//go:build integration

package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/ledgerdelivery"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/test"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

type accountData struct {
	Account domain.Account `json:"account"`
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

type balanceData struct {
	AccountID int32               `json:"account_id"`
	Balance   decimal.NullDecimal `json:"balance"`
}

type statementData struct {
	AccountID    int32                `json:"account_id"`
	Transactions []domain.Transaction `json:"transactions"`
}

func login(t *testing.T, server *httpserver.Server, accountID int32, password string) string {
	t.Helper()

	body := map[string]any{"account_id": accountID, "password": password}

	code, res := call(t, server, http.MethodPost, "/account/login", "", body, &accountData{})
	require.Equal(t, http.StatusOK, code, res.Error)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	return res.AccessToken
}

func TestDepositAndStatement(t *testing.T) {
	server := integrationtest.SetupServer(t)

	personBody := map[string]any{
		"name":       randompkg.Name(),
		"tax_id":     randompkg.TaxID(),
		"birth_date": randompkg.BirthDate().Format("2006-01-02"),
	}

	person := &struct {
		Person domain.Person `json:"person"`
	}{}

	code, res := call(t, server, http.MethodPost, "/person/create", "", personBody, person)
	require.Equal(t, http.StatusCreated, code, res.Error)

	password := randompkg.Password()
	created := &accountData{}

	code, res = call(t, server, http.MethodPost, "/account/create", "", map[string]any{
		"person_id": person.Person.ID,
		"category":  "Checking",
		"password":  password,
	}, created)
	require.Equal(t, http.StatusCreated, code, res.Error)
	require.True(t, created.Account.Active)
	require.True(t, created.Account.Balance.IsZero())
	require.True(t, created.Account.DailyLimit.Equal(domain.DefaultDailyLimit))

	accountID := created.Account.ID
	token := login(t, server, accountID, password)

	deposit := &transactionData{}
	code, res = call(t, server, http.MethodPost, "/account/deposit", token,
		map[string]any{"account_id": accountID, "amount": "100"}, deposit)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.True(t, deposit.Transaction.Amount.Equal(decimal.NewFromInt(100)))

	balance := &balanceData{}
	code, res = call(t, server, http.MethodGet, fmt.Sprintf("/account/balance?account_id=%d", accountID), token, nil, balance)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.True(t, balance.Balance.Valid)
	require.True(t, balance.Balance.Decimal.Equal(decimal.NewFromInt(100)))

	statement := &statementData{}
	code, res = call(t, server, http.MethodGet, fmt.Sprintf("/account/statement?account_id=%d", accountID), token, nil, statement)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Len(t, statement.Transactions, 1)
	require.Equal(t, deposit.Transaction.ID, statement.Transactions[0].ID)
	require.True(t, statement.Transactions[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestWithdrawalDailyLimit(t *testing.T) {
	server := integrationtest.SetupServer(t)

	person := test.SeedPerson(t, server.DB)
	balance := decimal.NewFromInt(5000)

	account := test.SeedAccountWith(t, server.DB, domain.CreateAccountParams{
		PersonID: person.ID,
		Category: domain.Savings,
		Balance:  &balance,
	})
	fresh := test.SeedAccountWith(t, server.DB, domain.CreateAccountParams{
		PersonID: person.ID,
		Category: domain.Checking,
		Balance:  &balance,
	})

	token := login(t, server, account.ID, "secret")

	withdraw := func(token string, accountID int32, amount string) (int, string) {
		code, res := call(t, server, http.MethodPost, "/account/withdraw", token,
			map[string]any{"account_id": accountID, "amount": amount}, &transactionData{})
		return code, res.Error
	}

	code, msg := withdraw(token, account.ID, "1000")
	require.Equal(t, http.StatusOK, code, msg)

	code, msg = withdraw(token, account.ID, "0.01")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, ledgerdelivery.LimitExceededMessage(account.ID, "0.01"), msg)

	freshToken := login(t, server, fresh.ID, "secret")

	code, msg = withdraw(freshToken, fresh.ID, "1000.01")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, ledgerdelivery.LimitExceededMessage(fresh.ID, "1000.01"), msg)

	got := &balanceData{}
	code, res := call(t, server, http.MethodGet, fmt.Sprintf("/account/balance?account_id=%d", account.ID), token, nil, got)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.True(t, got.Balance.Decimal.Equal(decimal.NewFromInt(4000)))
}

func TestBlockedAccountRejectsOperations(t *testing.T) {
	server := integrationtest.SetupServer(t)

	person := test.SeedPerson(t, server.DB)
	account := test.SeedAccount(t, server.DB, person.ID)
	token := login(t, server, account.ID, "secret")

	status := &struct {
		AccountID int32 `json:"account_id"`
		Active    bool  `json:"active"`
	}{}

	code, res := call(t, server, http.MethodPatch, "/account/block", token,
		map[string]any{"account_id": account.ID, "active": false}, status)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.False(t, status.Active)

	code, res = call(t, server, http.MethodPost, "/account/deposit", token,
		map[string]any{"account_id": account.ID, "amount": "10"}, &transactionData{})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, middleware.BlockedMessage(account.ID), res.Error)

	code, res = call(t, server, http.MethodPatch, "/account/active", token,
		map[string]any{"account_id": account.ID, "active": true}, status)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.True(t, status.Active)

	statement := &statementData{}
	code, res = call(t, server, http.MethodGet, fmt.Sprintf("/account/statement?account_id=%d", account.ID), token, nil, statement)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Empty(t, statement.Transactions)
}

func TestForeignAccountIsHidden(t *testing.T) {
	server := integrationtest.SetupServer(t)

	person := test.SeedPerson(t, server.DB)
	account := test.SeedAccount(t, server.DB, person.ID)
	other := test.SeedAccount(t, server.DB, person.ID)
	token := login(t, server, account.ID, "secret")

	otherToken := login(t, server, other.ID, "secret")
	code, res := call(t, server, http.MethodPatch, "/account/block", otherToken,
		map[string]any{"account_id": other.ID, "active": false}, nil)
	require.Equal(t, http.StatusOK, code, res.Error)

	for _, id := range []int32{other.ID, other.ID + 100} {
		code, res := call(t, server, http.MethodGet, fmt.Sprintf("/account/balance?account_id=%d", id), token, nil, nil)
		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, domain.ErrAccountOwnerMismatch.Error(), res.Error)
	}
}

func TestLoginFailures(t *testing.T) {
	server := integrationtest.SetupServer(t)

	person := test.SeedPerson(t, server.DB)
	account := test.SeedAccount(t, server.DB, person.ID)

	testCases := []struct {
		name      string
		accountID int32
		password  string
	}{
		{name: "WrongPassword", accountID: account.ID, password: "not-the-secret"},
		{name: "UnknownAccount", accountID: account.ID + 100, password: "secret"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, res := call(t, server, http.MethodPost, "/account/login", "",
				map[string]any{"account_id": tc.accountID, "password": tc.password}, nil)
			require.Equal(t, http.StatusUnauthorized, code)
			require.Equal(t, accountdelivery.InvalidCredentialsMessage, res.Error)
		})
	}
}

func TestRenewAccessToken(t *testing.T) {
	server := integrationtest.SetupServer(t)

	person := test.SeedPerson(t, server.DB)
	account := test.SeedAccount(t, server.DB, person.ID)

	code, res := call(t, server, http.MethodPost, "/account/login", "",
		map[string]any{"account_id": account.ID, "password": "secret"}, &accountData{})
	require.Equal(t, http.StatusOK, code, res.Error)

	code, renewed := call(t, server, http.MethodPost, "/sessions", "",
		map[string]any{"refresh_token": res.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, code, renewed.Error)
	require.NotEmpty(t, renewed.AccessToken)

	got := &balanceData{}
	code, res = call(t, server, http.MethodGet, fmt.Sprintf("/account/balance?account_id=%d", account.ID), renewed.AccessToken, nil, got)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.True(t, got.Balance.Valid)
}
