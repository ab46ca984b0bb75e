package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

// MediaStore defines the persistence surface required by the media service.
type MediaStore interface {
	WithTx(tx *gorm.DB) MediaStore
	Create(ctx context.Context, row *models.Media) error
	FindByIDAndUser(ctx context.Context, mediaID, userID uuid.UUID) (*models.Media, error)
	MarkReplaced(ctx context.Context, mediaID, replacedBy uuid.UUID) error
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

// Repository encapsulates media metadata persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) MediaStore {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a media metadata row.
func (r *Repository) Create(ctx context.Context, row *models.Media) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByIDAndUser loads a media row scoped to its owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, mediaID, userID uuid.UUID) (*models.Media, error) {
	var row models.Media
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mediaID, userID).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkReplaced records which row superseded this asset.
func (r *Repository) MarkReplaced(ctx context.Context, mediaID, replacedBy uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", mediaID).
		Update("replaced_by", replacedBy)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListReplacedBefore returns superseded rows created before the cutoff.
// The cron worker reaps these together with their bucket objects.
func (r *Repository) ListReplacedBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error) {
	var rows []models.Media
	err := r.db.WithContext(ctx).
		Where("replaced_by IS NOT NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// Delete removes a media row. Used to undo a row whose upload URL could not
// be signed.
func (r *Repository) Delete(ctx context.Context, mediaID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", mediaID).
		Delete(&models.Media{}).
		Error
}
