package domain

import (
	"errors"
	"time"
)

var (
	// ErrPersonNotFound indicates that the person is not found.
	ErrPersonNotFound = errors.New("person not found")
	// ErrPersonCreationFailed indicates that the person could not be stored.
	ErrPersonCreationFailed = errors.New("person creation failed")
	// ErrTaxIDAlreadyExists indicates that a person with the tax id already exists.
	ErrTaxIDAlreadyExists = errors.New("tax id already exists")
)

// Person holds the account owner data.
type Person struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	BirthDate time.Time `json:"birth_date"`
}

// CreatePersonParams is the input data to create a person.
type CreatePersonParams struct {
	Name      string
	TaxID     string
	BirthDate time.Time
}
