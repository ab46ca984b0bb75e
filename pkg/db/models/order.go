package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// Order is a submitted checkout. Totals are computed once at submission and
// persisted; the notification pipeline reads the row, never recomputes.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber  string            `gorm:"column:order_number;not null;uniqueIndex:ux_orders_order_number"`
	UserID       uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status       enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'submitted'"`
	Subtotal     decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Shipping     decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2);not null"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingInfo json.RawMessage   `gorm:"column:shipping_info;type:jsonb;not null"`
	Items        []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
