package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/judyrop/shop-api/models"
)

// OrderRepository persists orders and their order_products rows. Reads
// include the client and the products ordered by id.
type OrderRepository interface {
	// Create inserts the order and one order_products row per product id.
	// It does not check that the client or products exist; a missing
	// reference surfaces as ErrInvalidReference from the foreign keys.
	Create(ctx context.Context, order *models.Order, productIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByClient(ctx context.Context, clientID uint) ([]models.Order, error)
	Delete(ctx context.Context, id uint) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

var _ OrderRepository = (*gormOrderRepository)(nil)

func (r *gormOrderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Client").
		Preload("Products", productsByID)
}

func (r *gormOrderRepository) Create(ctx context.Context, order *models.Order, productIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("creating order: %w", mapError(err))
		}

		if len(productIDs) == 0 {
			return nil
		}

		lines := make([]models.OrderProduct, 0, len(productIDs))
		for _, productID := range productIDs {
			lines = append(lines, models.OrderProduct{OrderID: order.ID, ProductID: productID})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("linking products to order %d: %w", order.ID, mapError(err))
		}
		return nil
	})
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withRelations(ctx).First(&order, id).Error; err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, mapError(err))
	}
	return &order, nil
}

func (r *gormOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.withRelations(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", mapError(err))
	}
	return orders, nil
}

func (r *gormOrderRepository) ListByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.withRelations(ctx).
		Where("client_id = ?", clientID).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("listing orders of client %d: %w", clientID, mapError(err))
	}
	return orders, nil
}

func (r *gormOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return fmt.Errorf("deleting order lines of order %d: %w", id, mapError(err))
		}

		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting order %d: %w", id, mapError(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("deleting order %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
