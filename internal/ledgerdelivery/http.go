// Package ledgerdelivery manages delivery layer of deposits and withdrawals.
package ledgerdelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Deposit(ctx context.Context, accountID int32, amount string) (domain.Transaction, error)
	WithdrawChecked(ctx context.Context, accountID int32, amount string) (domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{
		service: ls,
	}
}

// DepositFailedMessage is returned when a deposit could not be completed.
func DepositFailedMessage(accountID int32, amount string) string {
	return fmt.Sprintf("Something went wrong while depositing %s into account %d! Please try again later.", amount, accountID)
}

// WithdrawalFailedMessage is returned when a withdrawal could not be completed.
func WithdrawalFailedMessage(accountID int32, amount string) string {
	return fmt.Sprintf("Something went wrong while withdrawing %s from account %d! Please try again later.", amount, accountID)
}

// LimitExceededMessage is returned when a withdrawal would exceed the daily limit.
func LimitExceededMessage(accountID int32, amount string) string {
	return fmt.Sprintf("Withdrawing %s would exceed the daily withdrawal limit of account %d.", amount, accountID)
}

type moveRequest struct {
	AccountID int32  `json:"account_id" binding:"required,min=1"`
	Amount    string `json:"amount" binding:"required,amount"`
}

type moveResponse struct {
	Transaction domain.Transaction `json:"transaction"`
}

// bind reads the request body cached by the account gate and checks the token owner.
func bind(gctx *gin.Context) (moveRequest, bool) {
	var req moveRequest

	if err := gctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		} else {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		}

		return req, false
	}

	if !middleware.IsAccountOwner(gctx, req.AccountID) {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))
		return req, false
	}

	return req, true
}

// Deposit handles http request to deposit money into account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	req, ok := bind(gctx)
	if !ok {
		return
	}

	tx, err := h.service.Deposit(ctx, req.AccountID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(domain.ErrAccountNotFound))
		default:
			l.Error().Stack().Err(err).Int32("account_id", req.AccountID).Str("amount", req.Amount).Msg("deposit failed")
			gctx.JSON(http.StatusInternalServerError, web.Message(DepositFailedMessage(req.AccountID, req.Amount)))
		}

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: moveResponse{Transaction: tx}})
}

// Withdraw handles http request to withdraw money from account within its daily limit.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	req, ok := bind(gctx)
	if !ok {
		return
	}

	tx, err := h.service.WithdrawChecked(ctx, req.AccountID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))
		case errors.Is(err, domain.ErrLimitExceeded):
			gctx.JSON(http.StatusBadRequest, web.Message(LimitExceededMessage(req.AccountID, req.Amount)))
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(domain.ErrAccountNotFound))
		default:
			l.Error().Stack().Err(err).Int32("account_id", req.AccountID).Str("amount", req.Amount).Msg("withdrawal failed")
			gctx.JSON(http.StatusInternalServerError, web.Message(WithdrawalFailedMessage(req.AccountID, req.Amount)))
		}

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: moveResponse{Transaction: tx}})
}
