// Package personservice manages business logic layer of persons.
package personservice

import (
	"context"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by person service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package personservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreatePersonParams) (domain.Person, error)
	Get(ctx context.Context, id int32) (domain.Person, error)
}

// Service facilitates person service layer logic.
type Service struct {
	repo Repo
}

// New returns person service struct to manage person bussines logic.
func New(pr Repo) *Service {
	return &Service{repo: pr}
}

// Create stores the person with the birth date truncated to the day.
func (s *Service) Create(ctx context.Context, arg domain.CreatePersonParams) (domain.Person, error) {
	arg.BirthDate = domain.Day(arg.BirthDate)

	return s.repo.Create(ctx, arg)
}

// Get returns the person with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Person, error) {
	return s.repo.Get(ctx, id)
}
