// Package persondelivery manages delivery layer of persons.
package persondelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// BirthDateLayout is the accepted birth date format.
const BirthDateLayout = "2006-01-02"

// Service provides service layer interface needed by person delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package persondelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreatePersonParams) (domain.Person, error)
	Get(ctx context.Context, id int32) (domain.Person, error)
}

// Handler facilitates person delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns person handler.
func NewHandler(ps Service) *Handler {
	return &Handler{
		service: ps,
	}
}

type personResponse struct {
	Person domain.Person `json:"person"`
}

func badRequest(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

type createRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	TaxID     string `json:"tax_id" binding:"required,len=11,numeric"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
}

// Create handles http request to register a person.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	birthDate, err := time.Parse(BirthDateLayout, req.BirthDate)
	if err != nil {
		badRequest(gctx, err)
		return
	}

	arg := domain.CreatePersonParams{
		Name:      req.Name,
		TaxID:     req.TaxID,
		BirthDate: birthDate,
	}

	person, err := h.service.Create(ctx, arg)
	if err != nil {
		if errors.Is(err, domain.ErrTaxIDAlreadyExists) {
			gctx.JSON(http.StatusConflict, web.Error(domain.ErrTaxIDAlreadyExists))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrPersonCreationFailed))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: personResponse{Person: person}})
}

type getRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get a person.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	person, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(domain.ErrPersonNotFound))
			return
		}

		l.Error().Err(err).Int32("person_id", req.ID).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: personResponse{Person: person}})
}
