package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// AddItemInput snapshots a customized product into the active cart.
type AddItemInput struct {
	ProductID     uuid.UUID
	Quantity      int
	Customization customization.DesignCustomization
}

// Service exposes the per-user server-side cart.
type Service interface {
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Records    CartRecordStore
	Items      CartItemStore
	Products   productLoader
	Tx         txRunner
	Storefront config.StorefrontConfig
}

type service struct {
	records    CartRecordStore
	items      CartItemStore
	products   productLoader
	tx         txRunner
	storefront config.StorefrontConfig
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Records == nil {
		return nil, fmt.Errorf("cart record repository required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("cart item repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		records:    params.Records,
		items:      params.Items,
		products:   params.Products,
		tx:         params.Tx,
		storefront: params.Storefront,
	}, nil
}

// GetActiveCart returns the priced active cart. A user with no active cart
// gets an empty quote rather than an error.
func (s *service) GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	record, err := s.records.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartDTO(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return toCartDTO(record, ComputeQuote(record.Items, s.storefront)), nil
}

// AddItem snapshots the product and its customization into the active cart,
// creating the cart record on first use. Quantity is floored at one.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	payload, err := json.Marshal(input.Customization)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode customization")
	}
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		records := s.records.WithTx(tx)
		items := s.items.WithTx(tx)

		record, err := records.FindActiveByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record = &models.CartRecord{UserID: userID}
			if err := records.Create(ctx, record); err != nil {
				return err
			}
		}

		item := models.CartItem{
			CartID:        record.ID,
			ProductID:     product.ID,
			ProductName:   product.Name,
			Category:      product.Category,
			BasePrice:     product.BasePrice,
			Quantity:      quantity,
			Customization: payload,
			Position:      len(record.Items),
		}
		return items.Insert(ctx, &item)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.GetActiveCart(ctx, userID)
}

// UpdateQuantity sets a line quantity, clamped to a floor of one.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 1 {
		quantity = 1
	}
	record, err := s.loadActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.items.UpdateQuantity(ctx, itemID, record.ID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.GetActiveCart(ctx, userID)
}

// RemoveItem drops a line from the active cart.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	record, err := s.loadActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Delete(ctx, itemID, record.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.GetActiveCart(ctx, userID)
}

func (s *service) loadActiveCart(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.records.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}
