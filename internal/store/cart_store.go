// Package store persists cart records in sqlite via gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aircart/api/internal/model"
)

// ErrCartNotFound is returned when a cart id has no record.
var ErrCartNotFound = errors.New("cart not found")

// CartStore is the cart record boundary: get and save whole rows. The store
// does no cross-row locking; concurrent pipeline runs against the same cart
// are last-writer-wins and callers must serialize uploads per cart.
type CartStore struct {
	db *gorm.DB
}

// Open opens (and migrates) the sqlite database at path. Use ":memory:" for
// an ephemeral store in tests.
func Open(path string) (*CartStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&model.Cart{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &CartStore{db: db}, nil
}

// Create inserts a new cart record.
func (s *CartStore) Create(ctx context.Context, cart *model.Cart) error {
	if err := s.db.WithContext(ctx).Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// Get loads a cart by id.
func (s *CartStore) Get(ctx context.Context, id string) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).First(&cart, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

// Save writes back a full cart row.
func (s *CartStore) Save(ctx context.Context, cart *model.Cart) error {
	if err := s.db.WithContext(ctx).Save(cart).Error; err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes a cart row.
func (s *CartStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Cart{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}
