package middleware

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
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// AccountIDKey is the gin context key of the account id checked by ActiveGate.
const AccountIDKey = "account_id"

// StatusChecker reports whether an account accepts operations.
type StatusChecker interface {
	IsActive(ctx context.Context, id int32) (bool, error)
}

type accountRequest struct {
	AccountID int32 `json:"account_id" form:"account_id" binding:"required,min=1"`
}

// BlockedMessage is the rejection message for operations on an inactive account.
func BlockedMessage(id int32) string {
	return fmt.Sprintf("Account %d is currently blocked and you cannot make any operations with it.", id)
}

// ActiveGate rejects requests for accounts the token does not own, then accounts that are missing or inactive.
//
// It must run after AuthMiddleware. The account id is read from the query string of GET requests and from the JSON body otherwise.
// The body is cached so handlers can bind it again with ShouldBindBodyWith.
func ActiveGate(checker StatusChecker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)

		var (
			req accountRequest
			err error
		)

		if gctx.Request.Method == http.MethodGet {
			err = gctx.ShouldBindQuery(&req)
		} else {
			err = gctx.ShouldBindBodyWith(&req, binding.JSON)
		}

		if err != nil {
			l.Info().Err(err).Send()

			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				gctx.AbortWithStatusJSON(http.StatusBadRequest, web.Message(web.GetErrorMsg(ve)))
				return
			}

			gctx.AbortWithStatusJSON(http.StatusBadRequest, web.Error(err))

			return
		}

		if !IsAccountOwner(gctx, req.AccountID) {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))
			return
		}

		active, err := checker.IsActive(ctx, req.AccountID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				gctx.AbortWithStatusJSON(http.StatusNotFound, web.Error(domain.ErrAccountNotFound))
				return
			}

			l.Error().Err(err).Int32("account_id", req.AccountID).Send()
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

			return
		}

		if !active {
			l.Info().Int32("account_id", req.AccountID).Msg(domain.ErrAccountInactive.Error())
			gctx.AbortWithStatusJSON(http.StatusBadRequest, web.Message(BlockedMessage(req.AccountID)))

			return
		}

		gctx.Set(AccountIDKey, req.AccountID)
		gctx.Next()
	}
}

