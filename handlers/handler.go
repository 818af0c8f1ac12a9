// Package handlers implements the /api endpoints on top of the store.
//
// Each handler binds and validates its input, runs its store calls (inside
// one transaction when it writes or reads more than once) and projects the
// result into the response shapes in responses.go. Failures are returned as
// *errs.HTTPError and written by fail.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/judyrop/shop-api/errs"
	"github.com/judyrop/shop-api/middleware"
	"github.com/judyrop/shop-api/store"
)

type Handler struct {
	store        *store.Store
	passwordCost int
}

func New(s *store.Store) *Handler {
	return &Handler{store: s, passwordCost: bcrypt.DefaultCost}
}

// fail writes err as the response. Client errors are logged at debug, and
// anything that is not an *errs.HTTPError becomes a 500 whose cause only
// reaches the log.
func (h *Handler) fail(c *gin.Context, err error) {
	log := middleware.GetLogger(c)

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", httpErr.Status).Msg("request failed")
		} else {
			log.Debug().Err(err).Int("status", httpErr.Status).Msg("request rejected")
		}
		c.AbortWithStatusJSON(httpErr.Status, httpErr)
		return
	}

	log.Error().Err(err).Msg("unhandled error")
	internal := errs.NewInternalServerError()
	c.AbortWithStatusJSON(internal.Status, internal)
}

// notFound replaces store.ErrNotFound with a 404 carrying message and
// passes every other error through.
func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errs.NewNotFoundError(message)
	}
	return err
}
