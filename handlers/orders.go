package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/shop-api/errs"
	"github.com/judyrop/shop-api/models"
	"github.com/judyrop/shop-api/store"
	"github.com/judyrop/shop-api/validation"
)

const (
	orderNotFound    = "Order not found"
	productsNotFound = "One or more products not found"
)

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.store.Orders.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponses(orders))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	order, err := h.store.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, orderNotFound))
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(*order))
}

// CreateOrder writes the order and its product links only when the client
// and every listed product exist.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := validation.BindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var created *models.Order
	err := h.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.Clients.GetByID(ctx, req.ClientID); err != nil {
			return notFound(err, clientNotFound)
		}

		products, err := tx.Products.FindByIDs(ctx, req.ProductIDs)
		if err != nil {
			return err
		}
		if len(products) != len(req.ProductIDs) {
			return errs.NewNotFoundError(productsNotFound)
		}

		order := models.Order{ClientID: req.ClientID}
		if err := tx.Orders.Create(ctx, &order, req.ProductIDs); err != nil {
			if errors.Is(err, store.ErrInvalidReference) {
				return errs.NewNotFoundError(productsNotFound)
			}
			return err
		}

		created, err = tx.Orders.GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderResponse(*created))
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var deleted *models.Order
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		order, err := tx.Orders.GetByID(ctx, id)
		if err != nil {
			return notFound(err, orderNotFound)
		}
		if err := tx.Orders.Delete(ctx, id); err != nil {
			return notFound(err, orderNotFound)
		}
		deleted = order
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(*deleted))
}
