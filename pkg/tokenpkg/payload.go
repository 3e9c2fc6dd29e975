package tokenpkg

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Different types of error returned by the VerifyToken function.
var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims identify the account a token is issued for.
type Claims struct {
	AccountID       int32  `json:"account_id"`
	PersonID        int32  `json:"person_id"`
	AccountCategory string `json:"account_type"`
}

// Payload contains the payload data of the token.
type Payload struct {
	ID              uuid.UUID `json:"id"`
	AccountID       int32     `json:"account_id"`
	PersonID        int32     `json:"person_id"`
	AccountCategory string    `json:"account_type"`
	IssuedAt        time.Time `json:"issued_at"`
	ExpiredAt       time.Time `json:"expired_at"`
}

// NewPayload creates a new token payload with the given claims and duration.
func NewPayload(claims Claims, duration time.Duration) (*Payload, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		ID:              tokenID,
		AccountID:       claims.AccountID,
		PersonID:        claims.PersonID,
		AccountCategory: claims.AccountCategory,
		IssuedAt:        time.Now(),
		ExpiredAt:       time.Now().Add(duration),
	}

	return payload, nil
}

// Valid checks if the token payload is valid or not.
func (p *Payload) Valid() error {
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}

	return nil
}
