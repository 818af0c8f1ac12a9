package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/judyrop/shop-api/models"
)

type ClientRepository interface {
	// Create inserts the client. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	// Delete removes the client, their orders and the orders' product links.
	Delete(ctx context.Context, id uint) error
}

type gormClientRepository struct {
	db *gorm.DB
}

var _ ClientRepository = (*gormClientRepository)(nil)

func (r *gormClientRepository) Create(ctx context.Context, client *models.Client) error {
	if err := r.db.WithContext(ctx).Omit("Orders").Create(client).Error; err != nil {
		return fmt.Errorf("creating client: %w", mapError(err))
	}
	return nil
}

func (r *gormClientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, fmt.Errorf("getting client %d: %w", id, mapError(err))
	}
	return &client, nil
}

func (r *gormClientRepository) List(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := r.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("listing clients: %w", mapError(err))
	}
	return clients, nil
}

func (r *gormClientRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking client email: %w", mapError(err))
	}
	return n > 0, nil
}

func (r *gormClientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("client_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return fmt.Errorf("listing orders of client %d: %w", id, mapError(err))
		}

		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderProduct{}).Error; err != nil {
				return fmt.Errorf("deleting order lines of client %d: %w", id, mapError(err))
			}
			if err := tx.Where("client_id = ?", id).Delete(&models.Order{}).Error; err != nil {
				return fmt.Errorf("deleting orders of client %d: %w", id, mapError(err))
			}
		}

		res := tx.Delete(&models.Client{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting client %d: %w", id, mapError(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("deleting client %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
