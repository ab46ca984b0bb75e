package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// Product is a catalog entry for a physical NFC item. The catalog is
// read-only for storefront users; admins manage rows directly.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null;default:''"`
	BasePrice   decimal.Decimal       `gorm:"column:base_price;type:numeric(12,2);not null"`
	Image       string                `gorm:"column:image;not null;default:''"`
	Category    enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	Tags        pq.StringArray        `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
