// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Messages returned to clients on login failures.
const (
	InvalidCredentialsMessage = "Invalid account ID and/or password! Please try again."
	RetrievalFailedMessage    = "Something went wrong while retrieving account! Please try again later."
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateAccountParams, password string) (domain.Account, error)
	CheckPassword(ctx context.Context, id int32, password string) (domain.Account, error)
	GetBalance(ctx context.Context, id int32) (decimal.NullDecimal, error)
	SetActive(ctx context.Context, id int32, active bool) (bool, error)
	Statement(ctx context.Context, id int32, days int) ([]domain.Transaction, error)
}

// SessionMaker facilitates session creation.
type SessionMaker interface {
	Create(ctx context.Context, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service      Service
	sessionMaker SessionMaker
}

// NewHandler returns account handler.
func NewHandler(as Service, sm SessionMaker) *Handler {
	return &Handler{
		service:      as,
		sessionMaker: sm,
	}
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

type loginRequest struct {
	AccountID int32  `json:"account_id" binding:"required,min=1"`
	Password  string `json:"password" binding:"required"`
}

// Login handles http login request and returns account and session data.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.CheckPassword(ctx, req.AccountID, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			gctx.JSON(http.StatusUnauthorized, web.Message(InvalidCredentialsMessage))
			return
		}

		l.Error().Err(err).Int32("account_id", req.AccountID).Send()
		gctx.JSON(http.StatusInternalServerError, web.Message(RetrievalFailedMessage))

		return
	}

	arg := domain.CreateSessionParams{
		AccountID: account.ID,
		PersonID:  account.PersonID,
		Category:  account.Category,
		UserAgent: gctx.Request.UserAgent(),
		ClientIP:  gctx.ClientIP(),
	}

	accessToken, accessTokenExpiresAt, session, err := h.sessionMaker.Create(ctx, arg)
	if err != nil {
		l.Warn().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  &accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: &session.ExpiresAt,
		Data: struct {
			Account domain.Account `json:"account"`
		}{
			Account: account,
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type createRequest struct {
	PersonID   int32  `json:"person_id" binding:"required,min=1"`
	Category   string `json:"category" binding:"required,category"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Balance    string `json:"balance" binding:"omitempty,numeric"`
	DailyLimit string `json:"daily_limit" binding:"omitempty,numeric"`
	Active     *bool  `json:"active"`
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	return &d, nil
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	balance, err := optionalDecimal(req.Balance)
	if err != nil {
		badRequest(gctx, err)
		return
	}

	dailyLimit, err := optionalDecimal(req.DailyLimit)
	if err != nil || (dailyLimit != nil && dailyLimit.IsNegative()) {
		badRequest(gctx, domain.ErrInvalidAmount)
		return
	}

	arg := domain.CreateAccountParams{
		PersonID:   req.PersonID,
		Category:   domain.AccountCategory(req.Category),
		Balance:    balance,
		DailyLimit: dailyLimit,
		Active:     req.Active,
	}

	account, err := h.service.Create(ctx, arg, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidCategory))
			return
		}

		l.Error().Err(err).Int32("person_id", req.PersonID).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrAccountCreationFailed))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{
		Data: struct {
			Account domain.Account `json:"account"`
		}{
			Account: account,
		},
	})
}

type setActiveRequest struct {
	AccountID int32 `json:"account_id" binding:"required,min=1"`
	Active    *bool `json:"active" binding:"required"`
}

// SetActive handles http request to block or unblock account.
func (h *Handler) SetActive(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req setActiveRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	if !middleware.IsAccountOwner(gctx, req.AccountID) {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))
		return
	}

	active, err := h.service.SetActive(ctx, req.AccountID, *req.Active)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(domain.ErrAccountNotFound))
			return
		}

		l.Error().Err(err).Int32("account_id", req.AccountID).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrAccountStatusChangeFailed))

		return
	}

	if active != *req.Active {
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrAccountStatusChangeFailed))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			AccountID int32 `json:"account_id"`
			Active    bool  `json:"active"`
		}{
			AccountID: req.AccountID,
			Active:    active,
		},
	})
}

type balanceRequest struct {
	AccountID int32 `form:"account_id" binding:"required,min=1"`
}

// Balance handles http request to get account balance.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req balanceRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	if !middleware.IsAccountOwner(gctx, req.AccountID) {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))
		return
	}

	balance, err := h.service.GetBalance(ctx, req.AccountID)
	if err != nil {
		l.Error().Err(err).Int32("account_id", req.AccountID).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			AccountID int32               `json:"account_id"`
			Balance   decimal.NullDecimal `json:"balance"`
		}{
			AccountID: req.AccountID,
			Balance:   balance,
		},
	})
}

type statementRequest struct {
	AccountID int32 `form:"account_id" binding:"required,min=1"`
	Days      int   `form:"days" binding:"omitempty,min=1,max=365"`
}

// Statement handles http request to list account transactions of the last days.
func (h *Handler) Statement(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req statementRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	if !middleware.IsAccountOwner(gctx, req.AccountID) {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))
		return
	}

	items, err := h.service.Statement(ctx, req.AccountID, req.Days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatementDays) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		l.Error().Err(err).Int32("account_id", req.AccountID).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrStatementFailed))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			AccountID    int32                `json:"account_id"`
			Transactions []domain.Transaction `json:"transactions"`
		}{
			AccountID:    req.AccountID,
			Transactions: items,
		},
	})
}
