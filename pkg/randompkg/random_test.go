package randompkg

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestIntBetween(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		if got := IntBetween(5, 7); got < 5 || got > 7 {
			t.Fatalf("IntBetween(5, 7) = %d, want value in [5, 7]", got)
		}
	}
}

func TestMoneyAmountBetween(t *testing.T) {
	t.Parallel()

	min, max := decimal.NewFromInt(10), decimal.NewFromInt(20)

	for i := 0; i < 100; i++ {
		got := MoneyAmountBetween(10, 20)
		if got.LessThan(min) || got.GreaterThan(max) {
			t.Fatalf("MoneyAmountBetween(10, 20) = %v, want value in [10, 20]", got)
		}

		if got.Exponent() < -2 {
			t.Fatalf("MoneyAmountBetween(10, 20) = %v, want at most 2 decimals", got)
		}
	}
}

func TestTaxID(t *testing.T) {
	t.Parallel()

	got := TaxID()
	if len(got) != 11 {
		t.Fatalf("len(TaxID()) = %d, want 11", len(got))
	}

	for _, r := range got {
		if r < '0' || r > '9' {
			t.Fatalf("TaxID() = %q, want digits only", got)
		}
	}
}

func TestBirthDate(t *testing.T) {
	t.Parallel()

	got := BirthDate()
	if got.After(time.Now().AddDate(-18, 0, 0)) {
		t.Errorf("BirthDate() = %v, want adult", got)
	}

	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("BirthDate() = %v, want day granularity", got)
	}
}
