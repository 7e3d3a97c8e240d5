// internal/services/cart_store.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
)

// CartStore is the cart persistence port. Item lookups are always
// cart-scoped so a caller can never reach into another user's cart.
type CartStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	GetItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	ItemExisted(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	InsertItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	IncrementItemQuantity(ctx context.Context, itemID uuid.UUID, delta int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type gormCartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) CartStore {
	return &gormCartStore{db: db}
}

func (s *gormCartStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("cart not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &cart, nil
}

func (s *gormCartStore) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	if err := s.db.WithContext(ctx).Create(cart).Error; err != nil {
		// Unique index on user_id: a concurrent request may have created
		// the cart first, in which case that one wins.
		if existing, getErr := s.GetByUser(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	cart.Items = []models.CartItem{}

	return cart, nil
}

func (s *gormCartStore) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("cart item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &item, nil
}

func (s *gormCartStore) GetItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("cart item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &item, nil
}

// ItemExisted reports whether a line for this cart ever existed,
// including soft-deleted tombstones. Used to tell a concurrent removal
// apart from an id that was never in the cart.
func (s *gormCartStore) ItemExisted(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}

	return count > 0, nil
}

func (s *gormCartStore) InsertItem(ctx context.Context, item *models.CartItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *gormCartStore) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	result := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cart item not found")
	}

	return nil
}

func (s *gormCartStore) IncrementItemQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	result := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cart item not found")
	}

	return nil
}

func (s *gormCartStore) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	// Zero rows affected is fine here; a concurrent request beat us to it.
	if err := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *gormCartStore) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}
