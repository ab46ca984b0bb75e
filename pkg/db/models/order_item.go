package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// OrderItem is the reduced line-item projection sent to fulfillment. Full
// color/pattern state stays on the cart snapshot; only the customization name
// and linked username travel with the order.
type OrderItem struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID         uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Name              string                `gorm:"column:name;not null"`
	Category          enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	BasePrice         decimal.Decimal       `gorm:"column:base_price;type:numeric(12,2);not null"`
	Quantity          int                   `gorm:"column:quantity;not null"`
	CustomizationName string                `gorm:"column:customization_name;not null;default:''"`
	LinkedUsername    *string               `gorm:"column:linked_username"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
}
