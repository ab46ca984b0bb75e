package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// CartRecordStore defines the record persistence surface required by the
// cart and checkout services.
type CartRecordStore interface {
	WithTx(tx *gorm.DB) CartRecordStore
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) error
	MarkStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}

// CartItemStore defines the line-item persistence surface.
type CartItemStore interface {
	WithTx(tx *gorm.DB) CartItemStore
	Insert(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, itemID, cartID uuid.UUID, quantity int) error
	Delete(ctx context.Context, itemID, cartID uuid.UUID) error
}
