package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// CartItemDTO is a cart line with its customization decoded and the line
// total pre-multiplied.
type CartItemDTO struct {
	ID            uuid.UUID                         `json:"id"`
	ProductID     uuid.UUID                         `json:"productId"`
	ProductName   string                            `json:"productName"`
	Category      enums.ProductCategory             `json:"category"`
	BasePrice     decimal.Decimal                   `json:"basePrice"`
	Quantity      int                               `json:"quantity"`
	Customization customization.DesignCustomization `json:"customization"`
	LineTotal     decimal.Decimal                   `json:"lineTotal"`
}

// CartDTO is the priced view of the user's active cart. An empty DTO with a
// nil ID means no active cart exists yet.
type CartDTO struct {
	ID    uuid.UUID     `json:"id"`
	Items []CartItemDTO `json:"items"`
	Quote
}

func emptyCartDTO() *CartDTO {
	return &CartDTO{
		Items: []CartItemDTO{},
		Quote: Quote{
			Subtotal: decimal.Zero,
			Shipping: decimal.Zero,
			Total:    decimal.Zero,
		},
	}
}

func toCartDTO(record *models.CartRecord, quote Quote) *CartDTO {
	items := make([]CartItemDTO, 0, len(record.Items))
	for _, item := range record.Items {
		design, _ := customization.Decode(item.Customization)
		items = append(items, CartItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Category:      item.Category,
			BasePrice:     item.BasePrice,
			Quantity:      item.Quantity,
			Customization: design,
			LineTotal:     item.BasePrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return &CartDTO{ID: record.ID, Items: items, Quote: quote}
}
