// Package personrepo manages repository layer of persons.
package personrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// RepoPGS facilitates person repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns person RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    persons (name, tax_id, birth_date)
VALUES
    ($1, $2, $3)
RETURNING id, name, tax_id, birth_date
`

// Create creates the person and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreatePersonParams) (domain.Person, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Name, arg.TaxID, domain.Day(arg.BirthDate))

	var p domain.Person

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.TaxID,
		&p.BirthDate,
	)
	if err != nil {
		l.Error().Err(err).Send()

		if dbpkg.Constraint(err) == "persons_tax_id_key" {
			return domain.Person{}, fmt.Errorf("%w: %w", domain.ErrPersonCreationFailed, domain.ErrTaxIDAlreadyExists)
		}

		return domain.Person{}, fmt.Errorf("%w: %w", domain.ErrPersonCreationFailed, dbpkg.Classify(err))
	}

	return p, nil
}

const getQuery = `
SELECT id, name, tax_id, birth_date FROM persons
WHERE id = $1
`

// Get returns the person with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Person, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var p domain.Person

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.TaxID,
		&p.BirthDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Person{}, domain.ErrPersonNotFound
		}

		l.Error().Err(err).Int32("person_id", id).Send()

		return domain.Person{}, dbpkg.Classify(err)
	}

	return p, nil
}
