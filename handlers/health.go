package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/shop-api/errs"
	"github.com/judyrop/shop-api/middleware"
)

const healthTimeout = 5 * time.Second

// Health responds 200 while the database answers a ping and 503 otherwise.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		middleware.GetLogger(c).Error().Err(err).Dur("response_time", time.Since(start)).Msg("database health check failed")
		unavailable := errs.NewServiceUnavailableError("Database unavailable")
		c.AbortWithStatusJSON(unavailable.Status, unavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
