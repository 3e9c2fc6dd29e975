package middleware

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/pkg/web"
)

// RateLimit limits each client to max requests per second. A non positive max disables the limit.
func RateLimit(max float64) gin.HandlerFunc {
	if max <= 0 {
		return func(gctx *gin.Context) {
			gctx.Next()
		}
	}

	lmt := tollbooth.NewLimiter(max, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})

	return func(gctx *gin.Context) {
		if httpErr := tollbooth.LimitByRequest(lmt, gctx.Writer, gctx.Request); httpErr != nil {
			gctx.AbortWithStatusJSON(httpErr.StatusCode, web.Message(httpErr.Message))
			return
		}

		gctx.Next()
	}
}
