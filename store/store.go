// Package store persists categories, products, clients and orders.
//
// Each entity has a repository interface with a gorm implementation. Writes
// that touch more than one table run in a transaction of their own, nested
// as a savepoint when the repository is already bound to one through
// Store.Transaction.
//
// Cascades are executed explicitly: deleting a category removes its
// products, deleting a client removes its orders, and deleting a product or
// an order removes the order_products rows that reference it. The schema
// declares the same rules as ON DELETE CASCADE foreign keys.
package store

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store struct {
	db *gorm.DB

	Categories CategoryRepository
	Products   ProductRepository
	Clients    ClientRepository
	Orders     OrderRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Categories: &gormCategoryRepository{db: db},
		Products:   &gormProductRepository{db: db},
		Clients:    &gormClientRepository{db: db},
		Orders:     &gormOrderRepository{db: db},
	}
}

// Transaction runs fn with a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back when fn returns an
// error or panics.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
