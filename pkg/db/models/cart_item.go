package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// CartItem snapshots a product plus its finalized customization. Quantity is
// never stored below one.
type CartItem struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID        uuid.UUID             `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID     uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	ProductName   string                `gorm:"column:product_name;not null"`
	Category      enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	BasePrice     decimal.Decimal       `gorm:"column:base_price;type:numeric(12,2);not null"`
	Quantity      int                   `gorm:"column:quantity;not null;default:1"`
	Customization json.RawMessage       `gorm:"column:customization;type:jsonb;not null"`
	Position      int                   `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
