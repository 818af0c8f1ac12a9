package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/judyrop/shop-api/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	// FindByIDs returns the products that exist among ids, ordered by id.
	// Missing ids are skipped, so callers compare lengths to detect them.
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Delete(ctx context.Context, id uint) error
}

type gormProductRepository struct {
	db *gorm.DB
}

var _ ProductRepository = (*gormProductRepository)(nil)

func (r *gormProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("creating product: %w", mapError(err))
	}
	return nil
}

func (r *gormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, mapError(err))
	}
	return &product, nil
}

func (r *gormProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", mapError(err))
	}
	return products, nil
}

func (r *gormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("finding products: %w", mapError(err))
	}
	return products, nil
}

func (r *gormProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return fmt.Errorf("deleting order lines of product %d: %w", id, mapError(err))
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting product %d: %w", id, mapError(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("deleting product %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
