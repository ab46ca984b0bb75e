package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// ProductRepository reads the product catalog. Storefront traffic never
// writes to it.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository binds the repository to the provided GORM handle.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListActive returns all purchasable products, optionally narrowed to a category.
func (r *ProductRepository) ListActive(ctx context.Context, category *enums.ProductCategory) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC")
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID returns a product regardless of active flag; callers decide
// whether inactive rows are acceptable.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
