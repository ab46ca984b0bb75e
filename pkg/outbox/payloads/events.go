package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSubmittedEvent is emitted when a checkout converts a cart into an order.
type OrderSubmittedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	Email       string          `json:"email"`
}

// OrderCanceledEvent is emitted when a submitted order is canceled before shipping.
type OrderCanceledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	CanceledAt  time.Time `json:"canceled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// MediaSupersededEvent signals an uploaded image was replaced and the old
// object can be reclaimed.
type MediaSupersededEvent struct {
	MediaID      uuid.UUID `json:"media_id"`
	ObjectKey    string    `json:"object_key"`
	ReplacedByID uuid.UUID `json:"replaced_by_id"`
}

// ProfileLinkedEvent records that a draft was tied to a tap profile.
type ProfileLinkedEvent struct {
	DraftID   uuid.UUID `json:"draft_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Username  string    `json:"username"`
}
