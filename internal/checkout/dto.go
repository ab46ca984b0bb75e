package checkout

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	"github.com/tapfolio/tapfolio-backend/pkg/types"
)

// OrderItemDTO is one reduced line on a submitted order.
type OrderItemDTO struct {
	ID                uuid.UUID             `json:"id"`
	ProductID         uuid.UUID             `json:"productId"`
	Name              string                `json:"name"`
	Category          enums.ProductCategory `json:"category"`
	BasePrice         decimal.Decimal       `json:"basePrice"`
	Quantity          int                   `json:"quantity"`
	CustomizationName string                `json:"customizationName,omitempty"`
	LinkedUsername    *string               `json:"linkedUsername,omitempty"`
}

// OrderDTO is the API view of an order.
type OrderDTO struct {
	ID           uuid.UUID          `json:"id"`
	OrderNumber  string             `json:"orderNumber"`
	Status       enums.OrderStatus  `json:"status"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Shipping     decimal.Decimal    `json:"shipping"`
	Total        decimal.Decimal    `json:"total"`
	ShippingInfo types.ShippingInfo `json:"shippingInfo"`
	Items        []OrderItemDTO     `json:"items"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func toOrderDTO(order models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:                item.ID,
			ProductID:         item.ProductID,
			Name:              item.Name,
			Category:          item.Category,
			BasePrice:         item.BasePrice,
			Quantity:          item.Quantity,
			CustomizationName: item.CustomizationName,
			LinkedUsername:    item.LinkedUsername,
		})
	}

	var shipping types.ShippingInfo
	if len(order.ShippingInfo) > 0 {
		_ = json.Unmarshal(order.ShippingInfo, &shipping)
	}

	return OrderDTO{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		Status:       order.Status,
		Subtotal:     order.Subtotal,
		Shipping:     order.Shipping,
		Total:        order.Total,
		ShippingInfo: shipping,
		Items:        items,
		CreatedAt:    order.CreatedAt,
	}
}
