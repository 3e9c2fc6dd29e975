package dbpkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "CheckViolation",
			err:  &pq.Error{Code: "23514", Constraint: "accounts_daily_limit_check"},
			want: errorspkg.ErrConstraintViolation,
		},
		{
			name: "WrappedUniqueViolation",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}),
			want: errorspkg.ErrConstraintViolation,
		},
		{
			name: "ConnectionFailure",
			err:  &pq.Error{Code: "08006"},
			want: errorspkg.ErrStorageUnavailable,
		},
		{
			name: "PlainError",
			err:  errors.New("connection refused"),
			want: errorspkg.ErrStorageUnavailable,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestConstraint(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23514", Constraint: "accounts_category_check"})
	if got := Constraint(err); got != "accounts_category_check" {
		t.Errorf("Constraint(%v) = %q, want %q", err, got, "accounts_category_check")
	}

	if got := Constraint(errors.New("plain")); got != "" {
		t.Errorf(`Constraint(plain) = %q, want ""`, got)
	}
}
