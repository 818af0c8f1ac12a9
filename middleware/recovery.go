package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/shop-api/errs"
)

// Recovery turns a panic into a 500 with the generic error body. The panic
// value and stack go to the request logger.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		GetLogger(c).Error().
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errs.NewInternalServerError())
	})
}
