package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

// CartItemRepository manages persistent cart items.
type CartItemRepository struct {
	db *gorm.DB
}

// NewCartItemRepository binds the repository to the provided DB handle.
func NewCartItemRepository(db *gorm.DB) *CartItemRepository {
	return &CartItemRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *CartItemRepository) WithTx(tx *gorm.DB) CartItemStore {
	if tx == nil {
		return r
	}
	return &CartItemRepository{db: tx}
}

// Insert adds a line item to a cart.
func (r *CartItemRepository) Insert(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets the quantity of an item scoped to its cart. Callers
// clamp the value before reaching the repository.
func (r *CartItemRepository) UpdateQuantity(ctx context.Context, itemID, cartID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an item scoped to its cart.
func (r *CartItemRepository) Delete(ctx context.Context, itemID, cartID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
