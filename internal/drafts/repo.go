package drafts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

// Repository encapsulates draft persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a draft repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns all drafts owned by a user, most recently touched first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Draft, error) {
	var rows []models.Draft
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDAndUser loads a single draft scoped to its owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, draftID, userID uuid.UUID) (*models.Draft, error) {
	var row models.Draft
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", draftID, userID).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new draft row.
func (r *Repository) Create(ctx context.Context, draft *models.Draft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

// Update overwrites the mutable columns of an existing draft in place.
// The row keeps its id and created_at; gorm refreshes updated_at, and the
// passed struct is reloaded so callers see the stored timestamps.
func (r *Repository) Update(ctx context.Context, draft *models.Draft) error {
	result := r.db.WithContext(ctx).
		Model(&models.Draft{}).
		Where("id = ? AND user_id = ?", draft.ID, draft.UserID).
		Updates(map[string]any{
			"customization": draft.Customization,
			"name":          draft.Name,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).
		Where("id = ?", draft.ID).
		First(draft).
		Error
}

// Delete removes a draft owned by the user. Missing rows report not found.
func (r *Repository) Delete(ctx context.Context, draftID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", draftID, userID).
		Delete(&models.Draft{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
