package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	"github.com/tapfolio/tapfolio-backend/pkg/pagination"
)

// OrderStore defines the persistence surface required by the checkout service.
type OrderStore interface {
	WithTx(tx *gorm.DB) OrderStore
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	FindByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

// OrderRepository encapsulates order persistence.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository binds the repository to the provided GORM handle.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *OrderRepository) WithTx(tx *gorm.DB) OrderStore {
	if tx == nil {
		return r
	}
	return &OrderRepository{db: tx}
}

// Create inserts the order together with its line items.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// ListByUser returns the user's orders, newest first. A cursor resumes the
// keyset scan; limit callers pass the page size plus one to probe for more.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Order
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDAndUser loads one order scoped to its owner.
func (r *OrderRepository) FindByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatus flips an order's fulfillment state.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
