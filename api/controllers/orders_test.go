package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/api/middleware"
	"github.com/tapfolio/tapfolio-backend/internal/checkout"
	"github.com/tapfolio/tapfolio-backend/pkg/pagination"
	"github.com/tapfolio/tapfolio-backend/pkg/types"
)

type stubCheckoutService struct {
	submitted *types.ShippingInfo
	page      pagination.Params
	cancelled uuid.UUID
}

func (s *stubCheckoutService) Submit(ctx context.Context, userID uuid.UUID, shipping types.ShippingInfo) (*checkout.OrderDTO, error) {
	s.submitted = &shipping
	return &checkout.OrderDTO{ID: uuid.New()}, nil
}

func (s *stubCheckoutService) List(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]checkout.OrderDTO, string, error) {
	s.page = page
	return []checkout.OrderDTO{}, "", nil
}

func (s *stubCheckoutService) Get(ctx context.Context, orderID, userID uuid.UUID) (*checkout.OrderDTO, error) {
	return &checkout.OrderDTO{ID: orderID}, nil
}

func (s *stubCheckoutService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*checkout.OrderDTO, error) {
	s.cancelled = orderID
	return &checkout.OrderDTO{ID: orderID}, nil
}

func TestSubmitOrder(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("rejects bad country code", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"full_name":"Ada Lovelace","email":"ada@example.com","line1":"1 Main St","city":"Austin","region":"TX","postal_code":"78701","country":"USA"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		SubmitOrder(&stubCheckoutService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for alpha-3 country, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"full_name":"Ada Lovelace","email":"ada@example.com","line1":"1 Main St","city":"Austin","region":"TX","postal_code":"78701","country":"US"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		stub := &stubCheckoutService{}
		SubmitOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.submitted == nil || stub.submitted.FullName != "Ada Lovelace" {
			t.Fatalf("expected Submit with shipping info, got %+v", stub.submitted)
		}
	})
}

func TestListOrdersPassesPagination(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	ctx := middleware.WithUserID(context.Background(), userID.String())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10&cursor=abc", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	stub := &stubCheckoutService{}
	ListOrders(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.page.Limit != 10 || stub.page.Cursor != "abc" {
		t.Fatalf("expected pagination params forwarded, got %+v", stub.page)
	}
}

func TestListOrdersRejectsOversizedLimit(t *testing.T) {
	logg := testLogger()
	ctx := middleware.WithUserID(context.Background(), uuid.NewString())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=1000", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	ListOrders(&stubCheckoutService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit above maximum, got %d", rec.Code)
	}
}

func TestCancelOrder(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	orderID := uuid.New()

	ctx := middleware.WithUserID(context.Background(), userID.String())
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", orderID.String())
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	stub := &stubCheckoutService{}
	CancelOrder(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.cancelled != orderID {
		t.Fatalf("expected Cancel invoked with %s, got %s", orderID, stub.cancelled)
	}
}
