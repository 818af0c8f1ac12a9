package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/judyrop/shop-api/errs"
	"github.com/judyrop/shop-api/models"
	"github.com/judyrop/shop-api/store"
	"github.com/judyrop/shop-api/validation"
)

const (
	clientNotFound = "Client not found"
	emailTaken     = "Client with this email already exists"
)

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.store.Clients.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newClientResponses(clients))
}

func (h *Handler) GetClient(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	client, err := h.store.Clients.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, clientNotFound))
		return
	}
	c.JSON(http.StatusOK, newClientResponse(*client))
}

// ListClientOrders responds 404 for an unknown client and [] for a client
// without orders.
func (h *Handler) ListClientOrders(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var orders []models.Order
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.Clients.GetByID(ctx, id); err != nil {
			return notFound(err, clientNotFound)
		}
		list, err := tx.Orders.ListByClient(ctx, id)
		orders = list
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponses(orders))
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := validation.BindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		h.fail(c, errs.NewValidationError("Validation failed", []errs.FieldError{{
			Field: "password",
			Error: "must not exceed 72 bytes",
		}}))
		return
	}
	if err != nil {
		h.fail(c, fmt.Errorf("hashing password: %w", err))
		return
	}

	ctx := c.Request.Context()
	client := models.Client{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		taken, err := tx.Clients.EmailTaken(ctx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewConflictError(emailTaken)
		}

		err = tx.Clients.Create(ctx, &client)
		if errors.Is(err, store.ErrDuplicate) {
			return errs.NewConflictError(emailTaken)
		}
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newClientResponse(client))
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var deleted *models.Client
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		client, err := tx.Clients.GetByID(ctx, id)
		if err != nil {
			return notFound(err, clientNotFound)
		}
		if err := tx.Clients.Delete(ctx, id); err != nil {
			return notFound(err, clientNotFound)
		}
		deleted = client
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newClientResponse(*deleted))
}
