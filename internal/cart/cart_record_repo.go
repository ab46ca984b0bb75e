package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// CartRecordRepository encapsulates cart record persistence.
type CartRecordRepository struct {
	db *gorm.DB
}

// NewCartRecordRepository binds the repository to the provided GORM handle.
func NewCartRecordRepository(db *gorm.DB) *CartRecordRepository {
	return &CartRecordRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *CartRecordRepository) WithTx(tx *gorm.DB) CartRecordStore {
	if tx == nil {
		return r
	}
	return &CartRecordRepository{db: tx}
}

// FindActiveByUser returns the user's active cart with its items, positions
// preserved. At most one active record exists per user.
func (r *CartRecordRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new cart record.
func (r *CartRecordRepository) Create(ctx context.Context, record *models.CartRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// MarkStatus flips a cart record's lifecycle state.
func (r *CartRecordRepository) MarkStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteConvertedBefore prunes converted carts older than the cutoff and
// returns the number of rows removed. Items cascade with the record.
func (r *CartRecordRepository) DeleteConvertedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", enums.CartStatusConverted, cutoff).
		Delete(&models.CartRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
