package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/shop-api/models"
	"github.com/judyrop/shop-api/store"
	"github.com/judyrop/shop-api/validation"
)

const categoryNotFound = "Category not found"

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.Categories.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponses(categories))
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	category, err := h.store.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, categoryNotFound))
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(*category))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := validation.BindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	category := models.Category{Name: req.Name}
	err := h.store.Transaction(c.Request.Context(), func(tx *store.Store) error {
		return tx.Categories.Create(c.Request.Context(), &category)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

// DeleteCategory removes the category with its products and responds with
// the category as it was before deletion.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var deleted *models.Category
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		category, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return notFound(err, categoryNotFound)
		}
		if err := tx.Categories.Delete(ctx, id); err != nil {
			return notFound(err, categoryNotFound)
		}
		deleted = category
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(*deleted))
}
