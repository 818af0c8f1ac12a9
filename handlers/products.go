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

const productNotFound = "Product not found"

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.store.Products.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponses(products))
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	product, err := h.store.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, productNotFound))
		return
	}
	c.JSON(http.StatusOK, newProductResponse(*product))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := validation.BindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	product := models.Product{Name: req.Name, Price: *req.Price, CategoryID: req.CategoryID}
	err := h.store.Transaction(ctx, func(tx *store.Store) error {
		exists, err := tx.Categories.Exists(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFoundError(categoryNotFound)
		}

		err = tx.Products.Create(ctx, &product)
		if errors.Is(err, store.ErrInvalidReference) {
			return errs.NewNotFoundError(categoryNotFound)
		}
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProductResponse(product))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var deleted *models.Product
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		product, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return notFound(err, productNotFound)
		}
		if err := tx.Products.Delete(ctx, id); err != nil {
			return notFound(err, productNotFound)
		}
		deleted = product
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(*deleted))
}
