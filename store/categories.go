package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/judyrop/shop-api/models"
)

// CategoryRepository persists categories. Reads include the category's
// products ordered by id.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// Delete removes the category and, with it, its products and their
	// order_products rows. Returns ErrNotFound if the category does not exist.
	Delete(ctx context.Context, id uint) error
}

type gormCategoryRepository struct {
	db *gorm.DB
}

var _ CategoryRepository = (*gormCategoryRepository)(nil)

func productsByID(db *gorm.DB) *gorm.DB {
	return db.Order("products.id")
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("Products").Create(category).Error; err != nil {
		return fmt.Errorf("creating category: %w", mapError(err))
	}
	return nil
}

func (r *gormCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", productsByID).
		First(&category, id).Error
	if err != nil {
		return nil, fmt.Errorf("getting category %d: %w", id, mapError(err))
	}
	return &category, nil
}

func (r *gormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.WithContext(ctx).
		Preload("Products", productsByID).
		Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", mapError(err))
	}
	return categories, nil
}

func (r *gormCategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking category %d: %w", id, mapError(err))
	}
	return n > 0, nil
}

func (r *gormCategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var productIDs []uint
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
			return fmt.Errorf("listing products of category %d: %w", id, mapError(err))
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.OrderProduct{}).Error; err != nil {
				return fmt.Errorf("deleting order lines of category %d: %w", id, mapError(err))
			}
			if err := tx.Where("category_id = ?", id).Delete(&models.Product{}).Error; err != nil {
				return fmt.Errorf("deleting products of category %d: %w", id, mapError(err))
			}
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting category %d: %w", id, mapError(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("deleting category %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
