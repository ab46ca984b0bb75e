package profiles

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

// Repository encapsulates profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the profiles owned by a user, oldest claim first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByUsername loads a profile by its public handle. Usernames are stored
// lowercase; the lookup folds case to match.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var row models.Profile
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDAndUser loads a profile scoped to its owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error) {
	var row models.Profile
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", profileID, userID).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new profile row. Uniqueness of the username is enforced
// by ux_profiles_username; callers translate the constraint error.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}
