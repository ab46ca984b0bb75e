package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

// Quote is the priced view of a cart: line subtotal, flat-or-free shipping
// and the grand total. All arithmetic is decimal; floats never touch money.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeQuote prices a set of cart items. Shipping is the flat rate unless
// the subtotal exceeds the free-shipping threshold; an empty cart ships
// nothing and costs nothing.
func ComputeQuote(items []models.CartItem, storefront config.StorefrontConfig) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		subtotal = subtotal.Add(item.BasePrice.Mul(decimal.NewFromInt(int64(quantity))))
	}

	shipping := decimal.Zero
	if len(items) > 0 && subtotal.LessThanOrEqual(storefront.FreeShippingThresholdAmount()) {
		shipping = storefront.FlatShippingRateAmount()
	}

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}
