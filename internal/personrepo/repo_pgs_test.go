package personrepo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

var personColumns = []string{"id", "name", "tax_id", "birth_date"}

func newTestRepo(t *testing.T) (*RepoPGS, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewRepoPGS(db), mock
}

func TestCreate(t *testing.T) {
	birth := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)
	arg := domain.CreatePersonParams{
		Name:      "Ada Lovelace",
		TaxID:     "12345678901",
		BirthDate: birth,
	}

	testCases := []struct {
		name          string
		buildStubs    func(mock sqlmock.Sqlmock)
		checkResponse func(t *testing.T, p domain.Person, err error)
	}{
		{
			name: "OK",
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO persons").
					WithArgs(arg.Name, arg.TaxID, birth).
					WillReturnRows(sqlmock.NewRows(personColumns).AddRow(1, arg.Name, arg.TaxID, birth))
			},
			checkResponse: func(t *testing.T, p domain.Person, err error) {
				require.NoError(t, err)

				want := domain.Person{ID: 1, Name: arg.Name, TaxID: arg.TaxID, BirthDate: birth}
				if diff := cmp.Diff(want, p); diff != "" {
					t.Errorf("Create() mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "TaxIDAlreadyExists",
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO persons").
					WillReturnError(&pq.Error{Code: "23505", Constraint: "persons_tax_id_key"})
			},
			checkResponse: func(t *testing.T, p domain.Person, err error) {
				require.ErrorIs(t, err, domain.ErrPersonCreationFailed)
				require.ErrorIs(t, err, domain.ErrTaxIDAlreadyExists)
				require.Empty(t, p)
			},
		},
		{
			name: "StorageFailure",
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO persons").
					WillReturnError(sql.ErrConnDone)
			},
			checkResponse: func(t *testing.T, p domain.Person, err error) {
				require.ErrorIs(t, err, domain.ErrPersonCreationFailed)
				require.ErrorIs(t, err, errorspkg.ErrStorageUnavailable)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newTestRepo(t)
			tc.buildStubs(mock)

			p, err := repo.Create(context.Background(), arg)
			tc.checkResponse(t, p, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		birth := time.Date(1985, time.January, 2, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT (.+) FROM persons").
			WithArgs(int32(4)).
			WillReturnRows(sqlmock.NewRows(personColumns).AddRow(4, "Grace Hopper", "10987654321", birth))

		p, err := repo.Get(context.Background(), 4)
		require.NoError(t, err)
		require.Equal(t, "Grace Hopper", p.Name)
		require.True(t, p.BirthDate.Equal(birth))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newTestRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM persons").
			WithArgs(int32(4)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), 4)
		require.ErrorIs(t, err, domain.ErrPersonNotFound)
	})
}
