package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/internal/cart"
	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox/payloads"
	"github.com/tapfolio/tapfolio-backend/pkg/pagination"
	"github.com/tapfolio/tapfolio-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service converts carts into orders and exposes order history.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, shipping types.ShippingInfo) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]OrderDTO, string, error)
	Get(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Orders     OrderStore
	Carts      cart.CartRecordStore
	Emitter    eventEmitter
	Tx         txRunner
	Storefront config.StorefrontConfig
	Logger     *logger.Logger
}

type service struct {
	orders     OrderStore
	carts      cart.CartRecordStore
	emitter    eventEmitter
	tx         txRunner
	storefront config.StorefrontConfig
	logg       *logger.Logger
	validate   *validator.Validate
	now        func() time.Time
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart record store required")
	}
	if params.Emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		orders:     params.Orders,
		carts:      params.Carts,
		emitter:    params.Emitter,
		tx:         params.Tx,
		storefront: params.Storefront,
		logg:       params.Logger,
		validate:   validator.New(),
		now:        time.Now,
	}, nil
}

// Submit converts the user's active cart into an order. Shipping info is
// validated before any state is touched; an empty cart is rejected. The
// order row, the cart status flip and the order_submitted outbox event all
// commit in one transaction, so the notification pipeline can never observe
// an order that does not exist.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, shipping types.ShippingInfo) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.validate.Struct(shipping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping info")
	}

	record, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	shippingJSON, err := json.Marshal(shipping)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode shipping info")
	}

	quote := cart.ComputeQuote(record.Items, s.storefront)
	order := models.Order{
		OrderNumber:  orderNumber(s.now()),
		UserID:       userID,
		Status:       enums.OrderStatusSubmitted,
		Subtotal:     quote.Subtotal,
		Shipping:     quote.Shipping,
		Total:        quote.Total,
		ShippingInfo: shippingJSON,
		Items:        reduceItems(record.Items),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, &order); err != nil {
			return err
		}
		if err := s.carts.WithTx(tx).MarkStatus(ctx, record.ID, enums.CartStatusConverted); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderSubmitted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.OrderSubmittedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				UserID:      userID,
				ItemCount:   len(order.Items),
				Subtotal:    order.Subtotal,
				Shipping:    order.Shipping,
				Total:       order.Total,
				Email:       shipping.Email,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderNumber(ctx, order.OrderNumber), "order submitted")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

// List returns the user's order history, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]OrderDTO, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.orders.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrderDTO(row))
	}
	return out, next, nil
}

// Get loads one order scoped to its owner.
func (s *service) Get(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

// Cancel flips a submitted order to canceled and emits the matching outbox
// event. Orders already moving through fulfillment cannot be canceled here.
func (s *service) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusSubmitted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("order in status %q cannot be canceled", order.Status))
	}

	canceledAt := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).UpdateStatus(ctx, order.ID, enums.OrderStatusCanceled); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.OrderCanceledEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				UserID:      userID,
				CanceledAt:  canceledAt,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}

	order.Status = enums.OrderStatusCanceled
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) loadOwned(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// reduceItems projects cart snapshots down to the line shape fulfillment
// needs: the display name from the front side and the linked handle, full
// color state stays behind on the cart record.
func reduceItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		design, _ := customization.Decode(item.Customization)
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		reduced := models.OrderItem{
			ProductID:         item.ProductID,
			Name:              item.ProductName,
			Category:          item.Category,
			BasePrice:         item.BasePrice,
			Quantity:          quantity,
			CustomizationName: design.Front.Name,
		}
		if design.Linked() {
			reduced.LinkedUsername = design.LinkedProfileUsername
		}
		out = append(out, reduced)
	}
	return out
}
