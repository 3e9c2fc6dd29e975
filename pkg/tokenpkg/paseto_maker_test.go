package tokenpkg

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func randomClaims() Claims {
	return Claims{
		AccountID:       randompkg.IntBetween(1, 1000),
		PersonID:        randompkg.IntBetween(1, 1000),
		AccountCategory: "Checking",
	}
}

func TestNewPasetoMakerInvalidKey(t *testing.T) {
	t.Parallel()

	key := randompkg.String(31)

	got, err := NewPasetoMaker(key)
	if err == nil {
		t.Errorf("NewPasetoMaker(%v) returned nil error, want key size error", key)
	}

	if got != nil {
		t.Errorf("PasetoMaker = %+v, want nil", got)
	}
}

func TestPasetoMaker(t *testing.T) {
	t.Parallel()

	secretKey := randompkg.String(32)

	maker, err := NewPasetoMaker(secretKey)
	if err != nil {
		t.Fatalf("NewPasetoMaker(%v) returned error: %v", secretKey, err)
	}

	claims := randomClaims()
	duration := time.Minute

	token, payload, err := maker.CreateToken(claims, duration)
	if err != nil {
		t.Errorf("maker.CreateToken(%+v, %v) returned error: %v", claims, duration, err)
	}

	verified, err := maker.VerifyToken(token)
	if err != nil {
		t.Errorf("maker.VerifyToken(%v) returned error: %v", token, err)
	}

	want := &Payload{
		AccountID:       claims.AccountID,
		PersonID:        claims.PersonID,
		AccountCategory: claims.AccountCategory,
		IssuedAt:        time.Now(),
		ExpiredAt:       time.Now().Add(duration),
	}

	ignore := cmpopts.IgnoreFields(Payload{}, "ID")
	delta := cmpopts.EquateApproxTime(time.Minute)

	if diff := cmp.Diff(want, payload, ignore, delta); diff != "" {
		t.Errorf("maker.CreateToken(%+v, %v) returned unexpected diff: %v", claims, duration, diff)
	}

	if verified.ID != payload.ID {
		t.Errorf("verified.ID = %v, want %v", verified.ID, payload.ID)
	}
}

func TestExpiredPasetoToken(t *testing.T) {
	t.Parallel()

	secretKey := randompkg.String(32)

	maker, err := NewPasetoMaker(secretKey)
	if err != nil {
		t.Fatalf("NewPasetoMaker(%v) returned error: %v", secretKey, err)
	}

	claims := randomClaims()
	duration := -time.Minute

	token, _, err := maker.CreateToken(claims, duration)
	if err != nil {
		t.Errorf("maker.CreateToken(%+v, %v) returned error: %v", claims, duration, err)
	}

	_, err = maker.VerifyToken(token)
	if err != ErrExpiredToken {
		t.Errorf("maker.VerifyToken(%v) returned unexpected error: %v", token, err)
	}
}

func TestPasetoTokenWrongKey(t *testing.T) {
	t.Parallel()

	maker1, err := NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewPasetoMaker returned error: %v", err)
	}

	maker2, err := NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewPasetoMaker returned error: %v", err)
	}

	token, _, err := maker1.CreateToken(randomClaims(), time.Minute)
	if err != nil {
		t.Fatalf("maker1.CreateToken returned error: %v", err)
	}

	if _, err = maker2.VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("maker2.VerifyToken(%v) returned error %v, want %v", token, err, ErrInvalidToken)
	}
}
